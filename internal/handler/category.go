package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/marshallshelly/jokes-api/internal/models"
)

func (h *Handler) listCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.categories.Get(c.Context(), id)
	if isNotFound(err) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	var req models.CreateCategoryDTO
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	category, err := h.categories.Create(c.Context(), req)
	if err != nil {
		return err
	}

	c.Location(fmt.Sprintf("/api/categories/%d", category.ID))
	return c.Status(fiber.StatusCreated).JSON(category)
}
