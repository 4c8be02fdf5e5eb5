package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/models"
)

func (h *Handler) listAudiences(c *fiber.Ctx) error {
	audiences, err := h.audiences.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(audiences)
}

func (h *Handler) getAudience(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	audience, err := h.audiences.Get(c.Context(), id)
	if isNotFound(err) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(audience)
}

func (h *Handler) createAudience(c *fiber.Ctx) error {
	var req models.CreateAudienceDTO
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	audience, err := h.audiences.Create(c.Context(), req)
	if err != nil {
		return err
	}

	c.Location(fmt.Sprintf("/api/audiences/%d", audience.ID))
	return c.Status(fiber.StatusCreated).JSON(audience)
}
