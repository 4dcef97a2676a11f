package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"projectpan/internal/config"
	"projectpan/internal/http/handlers"
	applog "projectpan/internal/log"
	"projectpan/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a generic message; never leak internals.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
		},
	})
	app.Server().MaxRequestBodySize = 10 << 20 // 10 MiB; backup restores can be large

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Coarse global guard; the PIN endpoint additionally has its own
	// DB-backed sliding window.
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg)
	session := handlers.RequireSession(deps.Auth)
	cron := handlers.RequireCronSecret(cfg)

	app.Get("/", deps.HomeHandler.Home)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Auth (the only data-facing routes without a session gate)
	app.All("/auth/verify", deps.AuthHandler.Verify)
	app.All("/auth/check", deps.AuthHandler.Check)

	// Resources
	app.All("/categories", session, deps.CategoryHandler.Handle)
	app.All("/products", session, deps.ProductHandler.Handle)
	app.All("/products/status", session, deps.ProductHandler.Status)
	app.All("/products/usage", session, deps.UsageHandler.Handle)

	// Backup & maintenance
	app.All("/backup/export", session, deps.BackupHandler.Export)
	app.All("/backup/restore", session, deps.BackupHandler.Restore)
	app.All("/backup/run", cron, deps.BackupHandler.Run)
	app.All("/maintenance/prune", cron, deps.AuthHandler.Prune)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		if c.Accepts("html", "json") == "html" {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
