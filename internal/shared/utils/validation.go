package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

var registerOnce sync.Once

// jsonTagName reports validation failures under the JSON field name.
func jsonTagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
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

// RegisterValidators configures gin's validator engine. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonTagName)
			_ = v.RegisterValidation("notblank", notBlank)
			_ = v.RegisterValidation("ticket_area", ticketArea)
		}
	})
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ticketArea accepts any known area, case-insensitively. Empty values pass
// so the tag composes with omitempty and required.
func ticketArea(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String || fl.Field().String() == "" {
		return true
	}
	_, err := vo.NewArea(fl.Field().String())
	return err == nil
}

// BindingError converts a gin binding failure into a validation AppError
// carrying per-field messages.
func BindingError(err error) *errors.AppError {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.NewValidationError("Invalid request body", err.Error())
	}

	fields := make([]errors.FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msg := fieldErrorMessage(fe)
		fields = append(fields, errors.FieldError{Field: fe.Field(), Message: msg})
		messages = append(messages, msg)
	}

	return errors.NewValidationError("Validation failed", strings.Join(messages, "; ")).WithFields(fields...)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "ticket_area":
		return fmt.Sprintf("%s must be one of TI, RH, Financeiro, Comercial", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}
