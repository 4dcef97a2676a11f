package handlers

import (
	"github.com/gofiber/fiber/v2"

	"projectpan/internal/domain"
	applog "projectpan/internal/log"
	"projectpan/internal/repos"
)

type HomeHandler struct {
	Prods *repos.ProductRepo
}

// Home renders the app shell with a status summary. No session required;
// it exposes only aggregate counts.
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	counts, err := h.Prods.CountByStatus()
	if err != nil {
		applog.Error(c, "home.counts.fail", err, nil)
		counts = map[string]int{}
	}
	return c.Render("home", fiber.Map{
		"InStock":  counts[domain.StatusInStock],
		"InUse":    counts[domain.StatusInUse],
		"Finished": counts[domain.StatusFinished],
	})
}
