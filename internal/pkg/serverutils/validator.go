package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()
	hhmmRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidationError lists the failing fields by their JSON names.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// IsStrongPassword requires 8+ characters with a lower, an upper, a digit and a special character.
func IsStrongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			special = true
		}
	}
	return lower && upper && digit && special
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hhmm":
		return "must be a time in HH:MM format"
	case "datetime":
		return fmt.Sprintf("must match the %s format", fe.Param())
	case "strongpassword":
		return "must have at least 8 characters with a lowercase letter, an uppercase letter, a digit and a special character"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
