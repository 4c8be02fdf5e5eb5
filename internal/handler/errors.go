package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/marshallshelly/jokes-api/internal/middleware"
)

// ErrorHandler renders every error returned by a route as JSON. Errors that
// are not *fiber.Error are logged and reported as a bare 500 so storage
// details stay out of responses.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := utils.StatusMessage(code)

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			logger.Error("request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("request_id", middleware.GetRequestID(c)),
				slog.Any("error", err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":     message,
			"status":    code,
			"path":      c.Path(),
			"method":    c.Method(),
			"requestId": middleware.GetRequestID(c),
		})
	}
}
