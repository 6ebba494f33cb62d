package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/gofiber/fiber/v2"
)

func TutorRoutes(app *fiber.App, h *handlers.Handler, limiter *middleware.RateLimiter) {
	api := app.Group("/api/v1")

	tutor := api.Group("/tutor", middleware.Protected(h.JWTSecret), limiter.Handler())
	tutor.Post("/chat", h.Chat)
	tutor.Post("/voice", h.SynthesizeVoice)
}
