package routes

import (
	"github.com/anjiri1684/studydao/handlers"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/gofiber/fiber/v2"
)

func DAORoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")
	protected := middleware.Protected(h.JWTSecret)

	daos := api.Group("/daos")
	daos.Get("", h.ListDAOs)
	daos.Post("", protected, h.CreateDAO)
	daos.Get("/:daoId", h.GetDAO)
	daos.Post("/:daoId/join", protected, h.JoinDAO)
	daos.Post("/:daoId/contribute", protected, h.ContributeToDAO)
}
