package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// ClientConfig holds the settings of the command-line API client.
type ClientConfig struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	// Env: CLIENT_BASE_URL
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`

	// RequestTimeout bounds every outbound request.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	// Login and Password authenticate against /api/auth/login/.
	// Env: CLIENT_LOGIN, CLIENT_PASSWORD
	Login    string `env:"LOGIN"`
	Password string `env:"PASSWORD"`
}

// GetClientConfig reads the client settings from CLIENT_* environment
// variables (after loading .env, if present).
func GetClientConfig() (*ClientConfig, error) {
	b := newConfigBuilder().withDotEnv()
	if b.err != nil {
		return nil, b.err
	}

	cfg := &ClientConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "CLIENT_"}); err != nil {
		return nil, fmt.Errorf("error getting client env configs: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClientConfigs, err)
	}

	return cfg, nil
}
