package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Report fields by their config-file key.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("pattern", func(fl validator.FieldLevel) bool {
			return layout.Pattern(fl.Field().String()).Valid()
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks the resolved configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return layouterrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if strings.TrimSpace(cfg.ElementSelector) == "" {
		return layouterrors.NewValidationError("elementSelector", "selector cannot be blank", nil)
	}

	return nil
}

// convertValidationError normalizes validator errors into validation errors
// keyed by config-file field path.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := fieldPath(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s' (value %v)", field, ve.Tag(), ve.Value())
		return layouterrors.NewValidationError(field, msg, err)
	}

	return layouterrors.NewValidationError("config", err.Error(), err)
}

func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
