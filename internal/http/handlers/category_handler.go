package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"projectpan/internal/domain"
	applog "projectpan/internal/log"
	"projectpan/internal/repos"
	"projectpan/internal/services"
	"projectpan/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

type categoryCreate struct {
	Name          string   `json:"name"`
	Color         string   `json:"color"`
	Subcategories []string `json:"subcategories"`
}

// Handle dispatches /categories by method, mirroring the single-route
// resource endpoints of the API.
func (h *CategoryHandler) Handle(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodGet:
		return h.get(c)
	case fiber.MethodPost:
		return h.create(c)
	case fiber.MethodPut:
		return h.update(c)
	case fiber.MethodDelete:
		return h.delete(c)
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}
}

func (h *CategoryHandler) get(c *fiber.Ctx) error {
	if raw := c.Query("id"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
		}
		cat, err := h.Catalog.GetCategory(id)
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
		}
		if err != nil {
			applog.Error(c, "categories.get.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(cat)
	}

	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "categories.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) create(c *fiber.Ctx) error {
	var in categoryCreate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}
	if in.Color != "" && !validate.HexColor(in.Color) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid color"})
	}

	cat, err := h.Catalog.CreateCategory(name, in.Color, in.Subcategories)
	if err != nil {
		applog.Error(c, "categories.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "categories.create", map[string]any{"id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *CategoryHandler) update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}
	var upd repos.CategoryUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if upd.Color != nil && *upd.Color != "" && !validate.HexColor(*upd.Color) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid color"})
	}

	cat, err := h.Catalog.UpdateCategory(id, upd)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
	}
	if err != nil {
		applog.Error(c, "categories.update.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(cat)
}

func (h *CategoryHandler) delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		applog.Error(c, "categories.delete.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "categories.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}
