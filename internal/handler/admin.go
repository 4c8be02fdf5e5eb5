package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/middleware"
)

const resetFailedMessage = "Error resetting database"

const healthTimeout = 2 * time.Second

func (h *Handler) reset(c *fiber.Ctx) error {
	result, err := h.admin.Reset(c.Context())
	if err != nil {
		h.logger.Error("database reset failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Any("error", err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message":   resetFailedMessage,
			"error":     err.Error(),
			"timestamp": h.now().UTC(),
		})
	}

	h.logger.Info("database reset",
		slog.Int64("jokes", result.DeletedItems.Jokes),
		slog.Int64("audiences", result.DeletedItems.Audiences),
		slog.Int64("categories", result.DeletedItems.Categories),
	)
	return c.JSON(result)
}

func (h *Handler) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}
