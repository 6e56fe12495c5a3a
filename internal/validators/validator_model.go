package validators

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/models"
)

const (
	FieldLogin    = "login"
	FieldPassword = "password"

	loginRules    = "required,min=3,max=64,printascii"
	passwordRules = "required,min=8,max=72"
)

// ModelValidator checks client input against the rules declared on model
// fields ([models.Field.Rules]) and the account credentials rules.
type ModelValidator struct {
	validate *validator.Validate
}

// NewModelValidator constructs a [ModelValidator].
func NewModelValidator() Validator {
	return &ModelValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate accepts a [models.Patch] or a [models.User].
//
// For a patch, fields restricts the check to the named columns; without
// fields every writable column is checked, so a missing required column
// fails. Absent and null values of optional columns are not checked.
func (v *ModelValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Patch:
		return v.validatePatch(ctx, value, fields...)
	case *models.Patch:
		return v.validatePatch(ctx, *value, fields...)

	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *ModelValidator) validatePatch(ctx context.Context, patch models.Patch, fields ...string) error {
	toCheck := patch.Meta.Writable()
	if len(fields) > 0 {
		toCheck = toCheck[:0:0]
		for _, name := range fields {
			field, ok := patch.Meta.Field(name)
			if !ok {
				return fmt.Errorf("%w: %s.%s", ErrUnknownField, patch.Meta.Name, name)
			}
			toCheck = append(toCheck, field)
		}
	}

	var errs []error
	for _, field := range toCheck {
		if field.Rules == "" {
			continue
		}

		value, present := patch.Values[field.Column]
		if !present || value == nil {
			if field.Required() {
				errs = append(errs, fmt.Errorf("%w: %s is required", ErrValidation, field.Column))
			}
			continue
		}

		if err := v.validate.Var(value, field.Rules); err != nil {
			errs = append(errs, fieldError(field.Column, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*ModelValidator.validatePatch").Str("model", patch.Meta.Name).Msg("patch rejected")
		return err
	}
	return nil
}

func (v *ModelValidator) validateUser(_ context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, field := range fields {
		switch field {
		case FieldLogin:
			if err := v.validate.Var(user.Login, loginRules); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidLogin, fieldError(FieldLogin, err))
			}
		case FieldPassword:
			if err := v.validate.Var(user.Password, passwordRules); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPassword, fieldError(FieldPassword, err))
			}
		default:
			return fmt.Errorf("%w: user.%s", ErrUnknownField, field)
		}
	}

	return nil
}

// fieldError turns a validator failure into an [ErrValidation] naming the
// column and the failed rule.
func fieldError(column string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s failed on %s=%s", ErrValidation, column, fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %s failed on %s", ErrValidation, column, fe.Tag())
	}
	// invalid rule syntax and the like
	return fmt.Errorf("%w: %s: %w", ErrValidation, column, err)
}
