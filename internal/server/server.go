// Package server assembles the fiber application and runs it until its
// context is cancelled.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/marshallshelly/jokes-api/internal/config"
	"github.com/marshallshelly/jokes-api/internal/handler"
	"github.com/marshallshelly/jokes-api/internal/middleware"
)

const appName = "jokes-api"

// New builds the fiber app with middleware and routes mounted.
func New(cfg config.ServerConfig, stores handler.Stores, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          handler.ErrorHandler(logger),
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		DisableStartupMessage: true,
	})

	// Middleware. The logger sits outside recover so panics are logged as 500s.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(recover.New())
	app.Use(cors.New())

	handler.New(stores, logger).Register(app)

	return app
}

// Run listens on cfg.Port and shuts the app down gracefully once ctx is done.
func Run(ctx context.Context, app *fiber.App, cfg config.ServerConfig, logger *slog.Logger) error {
	addr := fmt.Sprintf(":%d", cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("gracefully shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
