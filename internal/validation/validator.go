// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxIDLength bounds user and article identifiers.
const MaxIDLength = 128

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed field.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the JSON name of the field.
func (e *FieldError) Field() string { return e.field }

// Tag returns the failed validation tag.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the tag parameter ("100" for "max=100").
func (e *FieldError) Param() string { return e.param }

// Value returns the rejected value.
func (e *FieldError) Value() interface{} { return e.value }

func (e *FieldError) Error() string { return e.message }

// RequestValidationError collects the field errors of one request.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the field errors.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for i := range ve.errors {
		messages = append(messages, ve.errors[i].message)
	}
	return strings.Join(messages, "; ")
}

// APIError is the error body rendered for a failed validation.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the errors to a VALIDATION_ERROR response body.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	case 1:
		err := ve.errors[0]
		return &APIError{
			Code:    "VALIDATION_ERROR",
			Message: err.message,
			Details: map[string]interface{}{
				"field": err.field,
				"tag":   err.tag,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		fields[i] = map[string]interface{}{
			"field":   err.field,
			"tag":     err.tag,
			"message": err.message,
		}
		messages[i] = err.message
	}
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator. Field names in errors are the
// JSON (or query) names, and the entityid tag is registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		// Registration only fails for an empty tag or nil function.
		_ = validate.RegisterValidation("entityid", validateEntityID)
	})
	return validate
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "query"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// validateEntityID accepts ids up to MaxIDLength runes with no whitespace or
// control characters. Empty values pass; combine with required as needed.
func validateEntityID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len([]rune(id)) > MaxIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// ValidateStruct validates s, returning nil when it passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = FieldError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"entityid":   "%s must be at most 128 characters without whitespace",
	"datetime":   "%s must be a valid date/time in RFC3339 format",
	"alphanum":   "%s must contain only letters and digits",
	"printascii": "%s must contain only printable ASCII characters",
}

var errorMessageWithParam = map[string]string{
	"oneof":            "%s must be one of: %s",
	"gte":              "%s must be greater than or equal to %s",
	"lte":              "%s must be less than or equal to %s",
	"gt":               "%s must be greater than %s",
	"lt":               "%s must be less than %s",
	"required_without": "%s is required when %s is not set",
	"excluded_with":    "%s cannot be combined with %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isCollection := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		case isCollection:
			return fmt.Sprintf("%s must contain at least %s items", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		case isCollection:
			return fmt.Sprintf("%s must contain at most %s items", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
