package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected(h.JWTSecret))
	uploads.Get("/signature", h.GenerateUploadSignature)
}
