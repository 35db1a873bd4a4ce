// Package validation holds the pieces shared by the per-domain validators:
// a configured go-playground validator and field error rendering.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "clinic/pkg/errors"

	"github.com/go-playground/validator/v10"
)

type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Error) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type Errors []Error

func (v Errors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as field -> message for an API error body.
func (v Errors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// New returns a validator that reports fields by their JSON name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Struct validates s and translates field failures. messages overrides the
// text for custom tags; each value is a format string taking the field name.
func Struct(v *validator.Validate, s any, messages map[string]string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return Translate(fieldErrs, messages)
	}
	return err
}

func Translate(errs validator.ValidationErrors, messages map[string]string) Errors {
	var out Errors

	for _, err := range errs {
		message := err.Error()

		if format, ok := messages[err.Tag()]; ok {
			message = fmt.Sprintf(format, err.Field())
		} else {
			switch err.Tag() {
			case "required":
				message = fmt.Sprintf("%s is required", err.Field())
			case "min":
				message = minMaxMessage(err, "at least")
			case "max":
				message = minMaxMessage(err, "at most")
			case "email":
				message = fmt.Sprintf("%s must be a valid email address", err.Field())
			case "mongodb":
				message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
			case "oneof":
				message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
			}
		}

		out = append(out, Error{Field: err.Field(), Message: message})
	}

	return out
}

func minMaxMessage(err validator.FieldError, bound string) string {
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%s must be %s %s", err.Field(), bound, err.Param())
	}
	return fmt.Sprintf("%s must be %s %s characters", err.Field(), bound, err.Param())
}

// AppError wraps a validation failure as a VALIDATION_ERROR with per-field
// details.
func AppError(message string, err error) *apperrors.AppError {
	var verrs Errors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
