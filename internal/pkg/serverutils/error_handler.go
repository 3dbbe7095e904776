package serverutils

import (
	"errors"

	"designhub-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler builds the fiber app-level error handler. Fiber errors
// keep their status code; anything else becomes a 500 with the detail
// logged but not leaked.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("http", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
