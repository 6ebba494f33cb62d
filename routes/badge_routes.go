package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/gofiber/fiber/v2"
)

func BadgeRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")
	protected := middleware.Protected(h.JWTSecret)

	badges := api.Group("/badges")
	badges.Get("", h.ListBadges)
	badges.Get("/me", protected, h.GetMyBadges)
	badges.Post("/:badgeId/mint", protected, h.MintBadge)

	api.Get("/stats/me", protected, h.GetMyStats)
	api.Get("/leaderboard", h.GetLeaderboard)
}
