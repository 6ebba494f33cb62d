package handlers

import (
	"strings"

	"github.com/anjiri1684/studydao/metrics"
	"github.com/anjiri1684/studydao/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type BadgeMintRequest struct {
	WalletAddress string `json:"wallet_address"`
}

func (h *Handler) ListBadges(c *fiber.Ctx) error {
	return c.JSON(services.BadgeCatalog())
}

func (h *Handler) GetMyBadges(c *fiber.Ctx) error {
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}
	stats, err := h.Store.Stats(c.UserContext(), learnerID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(services.BadgeProgress(*stats))
}

// MintBadge mints an earned badge to the learner's wallet and records it.
func (h *Handler) MintBadge(c *fiber.Ctx) error {
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}

	badge, ok := services.FindBadge(c.Params("badgeId"))
	if !ok {
		return failure(c, fiber.StatusNotFound, "Badge not found")
	}

	var req BadgeMintRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return failure(c, fiber.StatusBadRequest, "Cannot parse JSON")
		}
	}

	ctx := c.UserContext()
	learner, err := h.Store.LearnerByID(ctx, learnerID)
	if err != nil {
		return storeError(c, err)
	}
	wallet := strings.TrimSpace(req.WalletAddress)
	if wallet == "" && learner.WalletAddress != nil {
		wallet = *learner.WalletAddress
	}
	if wallet == "" {
		return failure(c, fiber.StatusBadRequest, "wallet_address is required")
	}

	stats, err := h.Store.Stats(ctx, learnerID)
	if err != nil {
		return storeError(c, err)
	}
	if !services.BadgeEligible(badge.ID, *stats) {
		return failure(c, fiber.StatusForbidden, "Badge requirement not met: "+badge.Requirement)
	}

	result, err := h.Minter.Mint(ctx, services.MintRequest{WalletAddress: wallet, CourseName: badge.Name})
	if err != nil {
		return providerFailure(c, err)
	}

	newlyEarned, err := h.Store.RecordBadge(ctx, learnerID, badge.ID)
	if err != nil {
		return storeError(c, err)
	}
	if newlyEarned {
		metrics.BadgesEarned.WithLabelValues(badge.ID).Inc()
		log.Info().Str("learner_id", learnerID.String()).Str("badge", badge.ID).Msg("🏅 badge earned")
		if h.Certificates != nil {
			h.Certificates.IssueAsync(*learner, badge, wallet)
		}
	}

	return c.JSON(fiber.Map{
		"success":      result.Success,
		"message":      result.Message,
		"mint_address": result.MintAddress,
		"badge":        badge,
		"newly_earned": newlyEarned,
	})
}
