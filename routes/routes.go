package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/gofiber/fiber/v2"
)

// Register mounts every /api/v1 route group.
func Register(app *fiber.App, h *handlers.Handler, limiter *middleware.RateLimiter) {
	PublicRoutes(app, h)
	AuthRoutes(app, h)
	BadgeRoutes(app, h)
	DAORoutes(app, h)
	TutorRoutes(app, h, limiter)
	UploadRoutes(app, h)
	FeedRoutes(app, h)
}
