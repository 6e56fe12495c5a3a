// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// validate checks the merged [StructuredConfig] against its validate tags.
// Each failing group is reported with its own sentinel error.
func (cfg *StructuredConfig) validate() error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("error validating config: %w", err)
	}

	var joined error
	for _, fe := range fieldErrs {
		joined = errors.Join(joined, fmt.Errorf("%w: %s failed on %q", groupError(fe.StructNamespace()), fe.StructNamespace(), fe.Tag()))
	}
	return joined
}

func groupError(namespace string) error {
	switch {
	case strings.HasPrefix(namespace, "StructuredConfig.App."):
		return ErrInvalidAppConfigs
	case strings.HasPrefix(namespace, "StructuredConfig.Storage."):
		return ErrInvalidStorageConfigs
	case strings.HasPrefix(namespace, "StructuredConfig.Server."):
		return ErrInvalidServerConfigs
	default:
		return ErrInvalidViewsConfigs
	}
}
