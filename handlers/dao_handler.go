package handlers

import (
	"github.com/anjiri1684/studydao/services"
	"github.com/gofiber/fiber/v2"
)

type CreateDAORequest struct {
	Name          string  `json:"name" validate:"required,max=120"`
	Subject       string  `json:"subject" validate:"required,max=120"`
	Description   string  `json:"description" validate:"max=2000"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

type ContributeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0,lte=1000000000"`
}

func (h *Handler) ListDAOs(c *fiber.Ctx) error {
	daos, err := h.Store.ListDAOs(c.UserContext())
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(daos)
}

func (h *Handler) GetDAO(c *fiber.Ctx) error {
	dao, err := h.Store.DAO(c.UserContext(), c.Params("daoId"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(dao)
}

func (h *Handler) CreateDAO(c *fiber.Ctx) error {
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}

	var req CreateDAORequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dao, err := h.DAOs.Create(c.UserContext(), learnerID, services.CreateDAOInput{
		Name:          req.Name,
		Subject:       req.Subject,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dao)
}

func (h *Handler) JoinDAO(c *fiber.Ctx) error {
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}
	dao, err := h.DAOs.Join(c.UserContext(), learnerID, c.Params("daoId"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(dao)
}

func (h *Handler) ContributeToDAO(c *fiber.Ctx) error {
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}

	var req ContributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	contribution, err := h.DAOs.Contribute(c.UserContext(), learnerID, c.Params("daoId"), req.Amount)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(contribution)
}
