package serverutils

import (
	"errors"

	"ai-studyaid-be/pkg/generation"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps pipeline errors onto HTTP statuses. Only
// configuration and rate-limit failures carry their own semantics; anything
// else is a plain 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		switch {
		case generation.IsRateLimitError(err):
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message":   err.Error(),
				"retryable": true,
			})
		case generation.IsConfigurationError(err):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message":   err.Error(),
				"retryable": false,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
