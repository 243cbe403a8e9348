// Package validator turns ozzo-validation results into layered errors
package validator

import (
	"errors"

	"github.com/KOMKZ/go-yogan-listener/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrValidationFailed is returned for any configuration that fails validation
var ErrValidationFailed = errcode.Register(errcode.New(
	10, 1010, "common", "error.common.validation_failed", "validation failed",
))

func init() {
	// field errors are reported under the configuration key names
	validation.ErrorTag = "mapstructure"
}

// Validatable is implemented by configuration sections
type Validatable interface {
	Validate() error
}

// ValidateStruct runs v.Validate and converts ozzo field errors into ErrValidationFailed
// Field messages are stored under data["fields"], keyed by the field's tag name
func ValidateStruct(section string, v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return ConvertValidationError(section, fieldErrs)
	}
	return ErrValidationFailed.WithData("section", section).Wrap(err)
}

// ConvertValidationError flattens ozzo errors (nested sections included) into one layered error
func ConvertValidationError(section string, errs validation.Errors) error {
	fields := make(map[string]string)
	collect("", errs, fields)

	return ErrValidationFailed.
		WithMsgf("%s: validation failed", section).
		WithData("section", section).
		WithData("fields", fields).
		Wrap(errs)
}

func collect(prefix string, errs validation.Errors, out map[string]string) {
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			collect(name, nested, out)
			continue
		}
		out[name] = fieldErr.Error()
	}
}
