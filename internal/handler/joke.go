package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/models"
)

func (h *Handler) listJokes(c *fiber.Ctx) error {
	jokes, err := h.jokes.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(jokes)
}

func (h *Handler) getJoke(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	joke, err := h.jokes.Get(c.Context(), id)
	if isNotFound(err) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(joke)
}

// createJoke links only the audience ids that exist; unknown ids are dropped
// silently.
func (h *Handler) createJoke(c *fiber.Ctx) error {
	var req models.CreateJokeDTO
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	joke, err := h.jokes.Create(c.Context(), req)
	if err != nil {
		return err
	}

	c.Location(fmt.Sprintf("/api/jokes/%d", joke.ID))
	return c.Status(fiber.StatusCreated).JSON(joke)
}
