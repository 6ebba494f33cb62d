package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func FeedRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Use("/ws", h.FeedUpgrade)
	api.Get("/ws", websocket.New(h.ServeFeed))
}
