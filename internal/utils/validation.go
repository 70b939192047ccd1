package utils

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		errorMessages := make([]string, 0, len(errs))
		for _, e := range errs {
			errorMessages = append(errorMessages, fieldMessage(e))
		}
		return strings.Join(errorMessages, ", ")
	}
	return err.Error()
}

// BindAndValidate binds the request body to a struct and validates its
// binding tags. If either fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		badBinding(c, "Invalid request payload: ", err)
		return false
	}
	return true
}

// BindQueryAndValidate binds query parameters to a struct and validates it.
func BindQueryAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		badBinding(c, "Invalid query parameters: ", err)
		return false
	}
	return true
}

func badBinding(c *gin.Context, prefix string, err error) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		BadRequest(c, "Validation failed: "+FormatValidationError(errs))
		return
	}
	BadRequest(c, prefix+err.Error())
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "required_with":
		return e.Field() + " is required when " + e.Param() + " is set"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "min":
		return e.Field() + " must have at least " + e.Param() + " items"
	case "datetime":
		return e.Field() + " must match " + e.Param()
	default:
		return e.Field() + " failed " + e.Tag() + " validation"
	}
}
