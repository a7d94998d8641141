package middleware

import (
	"strconv"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedQuizIDKey = "validated_quiz_id"
	ValidatedLimitKey  = "validated_limit"
	defaultListLimit   = 20
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateQuizID validates the :id path parameter.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateQuizID(id); len(errors) > 0 {
			return errors
		}
		c.Locals(ValidatedQuizIDKey, id)
		return c.Next()
	}
}

// ValidateListLimit validates the optional limit query parameter.
func (vm *ValidationMiddleware) ValidateListLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := defaultListLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
			}
			limit = parsed
		}

		if errors := vm.validator.ValidateListLimit(limit); len(errors) > 0 {
			return errors
		}

		c.Locals(ValidatedLimitKey, limit)
		return c.Next()
	}
}
