package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/kaosekai/companion-api/internal/errors"
)

// bindJSON binds the request body and, on failure, responds with a 422
// carrying a per-field error map. Returns false when the response was sent.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.ValidationFailed(c, validationFieldErrors(err))
		return false
	}
	return true
}

func validationFieldErrors(err error) map[string][]string {
	fieldErrs := make(map[string][]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			fieldErrs[field] = append(fieldErrs[field], validationMessage(field, fe))
		}
		return fieldErrs
	}

	fieldErrs["body"] = []string{"The request body is malformed."}
	return fieldErrs
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s.", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// fieldError builds a single-field 422 error map.
func fieldError(field, message string) map[string][]string {
	return map[string][]string{field: {message}}
}

var emailTakenErrors = fieldError("email", "The email has already been taken.")

// parseIDParam parses a numeric path parameter. Returns false when the value
// is not a valid ID; callers respond 404 so malformed IDs and missing rows
// are indistinguishable.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
