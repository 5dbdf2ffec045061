// Package validation is the schema validator for gallery records.
//
// Rules are declared on the record types as `validate` struct tags and
// evaluated by github.com/go-playground/validator/v10. Failures are reported
// as apperror.ValidationFailed naming the first violated field by its JSON
// name, so a caller sees "username must be at least 3 characters" rather
// than a Go field path.
//
// Validation is pure: Parse works on a copy of the record and never touches
// storage.
package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/modelshare/internal/apperror"
)

// Defaulter is implemented by record types that substitute defaults for
// omitted fields before validation.
type Defaulter interface {
	ApplyDefaults()
}

// Validator checks records against their declared rules.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with JSON field naming and the custom rules used by
// the model package registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// RegisterValidation only fails for an empty tag or a nil func.
	for tag, fn := range map[string]validator.Func{
		"dataurl":  dataURLRule,
		"imageref": imageRefRule,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: registering %s: %v", tag, err))
		}
	}

	return &Validator{validate: v}
}

// Parse applies the record's defaults and validates the result. On success it
// returns the defaulted copy; the caller's value is left untouched.
func Parse[T any](v *Validator, record T) (T, error) {
	if d, ok := any(&record).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := v.Check(record); err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// Check validates s (a struct or pointer to struct) without applying
// defaults. Only the first violation is reported.
func (v *Validator) Check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperror.ValidationFailed(fe.Field(), message(fe))
	}

	// InvalidValidationError: the caller passed something that is not a struct.
	return fmt.Errorf("validation: %w", err)
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Param() == "0" {
			return field + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "dataurl":
		return field + " must be a data URL"
	case "imageref":
		return field + " must be a well-formed data URL"
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, lowerFirst(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func dataURLRule(fl validator.FieldLevel) bool {
	return IsDataURL(fl.Field().String())
}

// imageRefRule rejects values that claim to be data URLs but are not
// well-formed. Anything else is left to the url rule.
func imageRefRule(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return !strings.HasPrefix(s, "data:") || IsDataURL(s)
}

// IsDataURL accepts "data:[<mediatype>][;base64],<data>". A base64 payload
// must decode.
func IsDataURL(s string) bool {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return false
	}
	if strings.HasSuffix(meta, ";base64") {
		_, err := base64.StdEncoding.DecodeString(payload)
		return err == nil
	}
	return true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
