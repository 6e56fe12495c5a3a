package config

import "errors"

// Validation errors returned by [GetStructuredConfig] when a configuration
// group is incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid token or logging settings
	// (for example, a missing token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid database settings
	// (for example, an unsupported driver or an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid listener settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidViewsConfigs indicates invalid list defaults.
	ErrInvalidViewsConfigs = errors.New("invalid views configuration")
)

// ErrInvalidClientConfigs indicates invalid command-line client settings.
var ErrInvalidClientConfigs = errors.New("invalid client configuration")
