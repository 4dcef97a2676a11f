package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"projectpan/internal/config"
	"projectpan/internal/domain"
	applog "projectpan/internal/log"
	"projectpan/internal/services"
)

const tokenMaxAge = 365 * 24 * 60 * 60 // 1 year

type AuthHandler struct {
	Auth *services.AuthService
	Cfg  config.Config
}

type verifyRequest struct {
	PIN string `json:"pin"`
}

// Verify handles POST /auth/verify: the only unauthenticated mutating
// endpoint. Consults the rate limiter before accepting a PIN and issues
// the session cookie on success.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}

	ip := clientIP(c)
	var req verifyRequest
	// A body that doesn't parse is treated as a malformed PIN so it still
	// counts against the limiter.
	_ = c.BodyParser(&req)

	err := h.Auth.VerifyPIN(ip, req.PIN, time.Now())
	switch {
	case err == nil:
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    h.Cfg.AuthToken,
			Path:     "/",
			MaxAge:   tokenMaxAge,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteStrictMode,
			Secure:   h.Cfg.Env == "production",
		})
		applog.Audit(c, "auth.verify.success", nil)
		return c.JSON(fiber.Map{"success": true})
	case errors.Is(err, domain.ErrRateLimited):
		applog.Security(c, "auth.verify.ratelimited", map[string]any{"ip": ip})
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "too many attempts, try again in 15 minutes",
			"rateLimited": true,
		})
	case errors.Is(err, domain.ErrInvalidPIN):
		applog.Security(c, "auth.verify.fail", map[string]any{"ip": ip, "reason": "bad_format"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid pin"})
	case errors.Is(err, domain.ErrBadPIN):
		applog.Security(c, "auth.verify.fail", map[string]any{"ip": ip})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "incorrect pin"})
	case errors.Is(err, domain.ErrNotConfigured):
		applog.Error(c, "auth.verify.misconfigured", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	default:
		applog.Error(c, "auth.verify.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
}

// Check handles GET /auth/check; never requires a session.
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}
	return c.JSON(fiber.Map{"authenticated": h.Auth.ValidToken(c.Cookies(CookieName))})
}

// Prune handles POST /maintenance/prune (cron-secret gated): drops
// attempt records older than the rate-limit window.
func (h *AuthHandler) Prune(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "method not allowed"})
	}
	n, err := h.Auth.Prune(time.Now())
	if err != nil {
		applog.Error(c, "maintenance.prune.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	applog.Info(c, "maintenance.prune", map[string]any{"deleted": n})
	return c.JSON(fiber.Map{"success": true, "deleted": n})
}
