package handlers

import (
	"github.com/anjiri1684/studydao/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Mint(c *fiber.Ctx) error {
	var req services.MintRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return failure(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.Minter.Mint(c.UserContext(), req)
	if err != nil {
		return providerFailure(c, err)
	}
	return c.JSON(result)
}

func (h *Handler) WalletBalance(c *fiber.Ctx) error {
	key, err := services.ParsePublicKey(c.Params("address"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sol, err := h.Wallets.Balance(c.UserContext(), key)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch balance: " + err.Error()})
	}
	return c.JSON(fiber.Map{"address": key.String(), "balance": sol})
}
