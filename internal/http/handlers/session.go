package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"projectpan/internal/config"
	applog "projectpan/internal/log"
	"projectpan/internal/services"
)

// CookieName is the session cookie carrying the fixed auth token.
const CookieName = "pan_auth"

// RequireSession gates data endpoints: a missing or wrong token is a 401
// with no further work done.
func RequireSession(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.ValidToken(c.Cookies(CookieName)) {
			applog.Security(c, "access.denied", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}

// RequireCronSecret gates the externally triggered maintenance endpoints
// (scheduled backup, attempt pruning) with a bearer secret.
func RequireCronSecret(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		want := "Bearer " + cfg.CronSecret
		if cfg.CronSecret == "" || subtle.ConstantTimeCompare([]byte(header), []byte(want)) != 1 {
			applog.Security(c, "access.denied.cron", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}

// clientIP derives rate-limit identity: first forwarded address, then the
// real-ip header, then a shared sentinel. Distinct clients behind one
// proxy without forwarding headers collapse into a single bucket.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := c.Get("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}
