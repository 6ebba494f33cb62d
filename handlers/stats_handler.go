package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

func (h *Handler) GetMyStats(c *fiber.Ctx) error {
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}
	stats, err := h.Store.Stats(c.UserContext(), learnerID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(stats)
}

func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLeaderboardSize)
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	entries, err := h.Store.Leaderboard(c.UserContext(), limit)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(entries)
}
