package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"projectpan/internal/domain"
	applog "projectpan/internal/log"
	"projectpan/internal/repos"
	"projectpan/internal/services"
	"projectpan/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// Handle dispatches /products by method.
func (h *ProductHandler) Handle(c *fiber.Ctx) error {
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

func (h *ProductHandler) get(c *fiber.Ctx) error {
	if raw := c.Query("id"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
		}
		p, err := h.Catalog.GetProduct(id)
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		if err != nil {
			applog.Error(c, "products.get.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(p)
	}

	var f repos.ProductFilter
	if status := c.Query("status"); status != "" {
		if !validate.Status(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
		}
		f.Status = status
	} else if raw := c.Query("categoryId"); raw != "" {
		catID, ok := validate.ID(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid categoryId"})
		}
		f.CategoryID = catID
	}

	prods, err := h.Catalog.ListProducts(f)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(prods)
}

func (h *ProductHandler) create(c *fiber.Ctx) error {
	var in repos.ProductCreate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}
	in.Name = name

	p, err := h.Catalog.CreateProduct(in)
	if errors.Is(err, domain.ErrInvalidStatus) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}
	if err != nil {
		applog.Error(c, "products.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "products.create", map[string]any{"id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}
	var upd repos.ProductUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	p, err := h.Catalog.UpdateProduct(id, upd)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	case err != nil:
		applog.Error(c, "products.update.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(p)
}

func (h *ProductHandler) delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		applog.Error(c, "products.delete.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "products.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"success": true})
}

type statusUpdate struct {
	Status string  `json:"status"`
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}

// Status handles PUT /products/status?id=: the lifecycle transition with
// its stamping side effects.
func (h *ProductHandler) Status(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPut {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}
	var in statusUpdate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	p, err := h.Catalog.SetStatus(id, in.Status, in.Rating, in.Review, time.Now())
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	case errors.Is(err, domain.ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rating must be between 1 and 5"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	case err != nil:
		applog.Error(c, "products.status.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "products.status", map[string]any{"id": id, "status": in.Status})
	return c.JSON(p)
}
