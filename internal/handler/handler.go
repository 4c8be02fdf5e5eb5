// Package handler exposes the category, audience, joke and admin stores over
// HTTP with fiber.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/jokes-api/internal/repository"
)

type CategoryStore interface {
	List(ctx context.Context) ([]models.CategoryDTO, error)
	Get(ctx context.Context, id int64) (models.CategoryDTO, error)
	Create(ctx context.Context, in models.CreateCategoryDTO) (models.CategoryDTO, error)
}

type AudienceStore interface {
	List(ctx context.Context) ([]models.AudienceDTO, error)
	Get(ctx context.Context, id int64) (models.AudienceDTO, error)
	Create(ctx context.Context, in models.CreateAudienceDTO) (models.AudienceDTO, error)
}

type JokeStore interface {
	List(ctx context.Context) ([]models.JokeDTO, error)
	Get(ctx context.Context, id int64) (models.JokeDTO, error)
	Create(ctx context.Context, in models.CreateJokeDTO) (models.JokeDTO, error)
}

type AdminStore interface {
	Reset(ctx context.Context) (models.ResetResult, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores groups the backends a Handler serves.
type Stores struct {
	Categories CategoryStore
	Audiences  AudienceStore
	Jokes      JokeStore
	Admin      AdminStore
	DB         Pinger
}

// Handler holds the HTTP endpoints. Create one with New.
type Handler struct {
	categories CategoryStore
	audiences  AudienceStore
	jokes      JokeStore
	admin      AdminStore
	db         Pinger
	logger     *slog.Logger
	now        func() time.Time
}

func New(s Stores, logger *slog.Logger) *Handler {
	return &Handler{
		categories: s.Categories,
		audiences:  s.Audiences,
		jokes:      s.Jokes,
		admin:      s.Admin,
		db:         s.DB,
		logger:     logger,
		now:        time.Now,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health", h.health)

	api := r.Group("/api")

	api.Get("/categories", h.listCategories)
	api.Get("/categories/:id", h.getCategory)
	api.Post("/categories", h.createCategory)

	api.Get("/audiences", h.listAudiences)
	api.Get("/audiences/:id", h.getAudience)
	api.Post("/audiences", h.createAudience)

	api.Get("/jokes", h.listJokes)
	api.Get("/jokes/:id", h.getJoke)
	api.Post("/jokes", h.createJoke)

	r.Get("/admin/reset", h.reset)
}

var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return int64(id), nil
}

// notFound answers 404 with an empty body; fiber's SendStatus would fill in
// the status text.
func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Send(nil)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
