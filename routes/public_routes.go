package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Post("/mint", h.Mint)
	api.Get("/wallets/:address/balance", h.WalletBalance)
}
