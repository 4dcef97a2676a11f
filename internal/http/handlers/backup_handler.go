package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"projectpan/internal/config"
	"projectpan/internal/domain"
	applog "projectpan/internal/log"
	"projectpan/internal/services"
)

type BackupHandler struct {
	Backup *services.BackupService
	Cfg    config.Config
}

// Export handles GET /backup/export: the full database as one JSON
// document, served as a download.
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}

	now := time.Now()
	b, err := h.Backup.Export(now)
	if err != nil {
		applog.Error(c, "backup.export.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}

	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="projectpan-backup-%s.json"`, now.UTC().Format("2006-01-02")))
	applog.Audit(c, "backup.export", nil)
	return c.Send(raw)
}

// Restore handles POST /backup/restore: replaces all data with the backup
// content, preserving original ids.
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}

	var b domain.Backup
	if err := c.BodyParser(&b); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid backup format"})
	}

	counts, err := h.Backup.Restore(b)
	if errors.Is(err, domain.ErrInvalidBackup) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid backup format"})
	}
	if err != nil {
		applog.Error(c, "backup.restore.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "backup.restore", map[string]any{
		"categories": counts.Categories, "products": counts.Products, "usage_logs": counts.UsageLogs,
	})
	return c.JSON(fiber.Map{"success": true, "restored": counts})
}

// Run handles POST /backup/run (cron-secret gated): writes a snapshot of
// the export document to the configured backup directory.
func (h *BackupHandler) Run(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}

	path, b, err := h.Backup.WriteSnapshot(h.Cfg.BackupDir, time.Now())
	if err != nil {
		applog.Error(c, "backup.run.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Audit(c, "backup.run", map[string]any{"path": path})
	return c.JSON(fiber.Map{
		"success":   true,
		"path":      path,
		"createdAt": b.CreatedAt,
		"counts": fiber.Map{
			"categories": len(b.Data.Categories),
			"products":   len(b.Data.Products),
			"usageLogs":  len(b.Data.UsageLogs),
		},
	})
}
