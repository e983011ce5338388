package middleware

import (
	"strings"

	"trainhub/internal/domain"
	"trainhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// maxIDParamLength bounds path identifiers before they reach the store.
const maxIDParamLength = 64

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// Validator exposes the underlying request validator.
func (vm *ValidationMiddleware) Validator() *validation.Validator {
	return vm.validator
}

// Bind parses the JSON body into out and validates it.
func (vm *ValidationMiddleware) Bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := vm.validator.Struct(out); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateIDParams rejects empty or oversized path identifiers.
func (vm *ValidationMiddleware) ValidateIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, name := range names {
			value := strings.TrimSpace(c.Params(name))
			switch {
			case value == "":
				errs = append(errs, domain.NewMissingFieldError(name))
			case len(value) > maxIDParamLength:
				errs = append(errs, domain.NewOutOfRangeError(name, len(value), 1, maxIDParamLength))
			}
		}
		if len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}
