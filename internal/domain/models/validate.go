package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func structValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks struct tags on v and reports the first failing field as a
// ValidationError.
func Validate(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return Invalid("", err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	switch fe.Tag() {
	case "required":
		return Missing(field)
	case "gt", "gte", "lt", "lte", "min", "max":
		return Invalid(field, fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param()))
	case "oneof":
		return Invalid(field, fmt.Sprintf("must be one of [%s]", fe.Param()))
	case "email":
		return Invalid(field, "must be a valid email address")
	default:
		return Invalid(field, fmt.Sprintf("failed %s check", fe.Tag()))
	}
}

func trimmed(s string) string { return strings.TrimSpace(s) }
