package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks struct tags on a bound request body. The
// returned error is a validator.ValidationErrors, which the error
// handler middleware maps to a 400.
func ValidateRequest(payload interface{}) error {
	return validate.Struct(payload)
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// the JSON error envelope. Validation errors become 400s, fiber errors
// keep their status code, anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			code = fiber.StatusBadRequest
			message = formatValidationErrors(validationErrs)
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}
