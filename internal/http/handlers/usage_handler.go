package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"projectpan/internal/domain"
	applog "projectpan/internal/log"
	"projectpan/internal/services"
	"projectpan/internal/validate"
)

type UsageHandler struct {
	Usage *services.UsageService
}

// Handle dispatches /products/usage?productId= — GET returns the logs
// plus their aggregation, POST appends one event at "now".
func (h *UsageHandler) Handle(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "productId required"})
	}

	switch c.Method() {
	case fiber.MethodGet:
		logs, stats, err := h.Usage.ProductUsage(productID, time.Now())
		if err != nil {
			applog.Error(c, "usage.get.fail", err, map[string]any{"product_id": productID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		return c.JSON(fiber.Map{
			"logs": logs,
			"stats": fiber.Map{
				"weekCount":  stats.WeekCount,
				"monthCount": stats.MonthCount,
				"totalCount": stats.TotalCount,
			},
			"currentMonthDays": stats.CurrentMonthDays,
			"monthlyData":      stats.MonthlyHistory,
		})
	case fiber.MethodPost:
		if err := h.Usage.LogUsage(productID, time.Now()); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
			}
			applog.Error(c, "usage.log.fail", err, map[string]any{"product_id": productID})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		}
		applog.Info(c, "usage.log", map[string]any{"product_id": productID})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}
}
