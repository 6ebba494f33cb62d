package handlers

import (
	"context"
	"errors"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/anjiri1684/studydao/services"
	"github.com/anjiri1684/studydao/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type BalanceReader interface {
	Balance(ctx context.Context, key services.PublicKey) (float64, error)
}

// Handler carries the dependencies of every HTTP endpoint. Tutor, Voice,
// Certificates and Mailer are nil when their provider is not configured.
type Handler struct {
	Store        database.Store
	DAOs         *services.DAOService
	Tutor        *services.TutorService
	Voice        services.VoiceSynthesizer
	Minter       *services.Minter
	Wallets      BalanceReader
	Certificates *services.CertificateIssuer
	Mailer       services.Mailer
	Hub          *websocket.Hub

	JWTSecret     string
	CloudinaryURL string
}

func currentLearner(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := middleware.LearnerID(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	return id, nil
}

// storeError maps store and service sentinels to HTTP responses.
func storeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, database.ErrDAONotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "DAO not found"})
	case errors.Is(err, database.ErrLearnerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Learner not found"})
	case errors.Is(err, database.ErrDAOExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A DAO with this name already exists"})
	case errors.Is(err, database.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	case errors.Is(err, database.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "DAO has no AI credits left"})
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInvalidDAOName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("🔥 request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// failure writes the {"success": false} envelope the tutor and mint clients read.
func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

func providerFailure(c *fiber.Ctx, err error) error {
	var perr *services.ProviderError
	switch {
	case errors.Is(err, services.ErrInvalidAddress):
		return failure(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrInsufficientCredits):
		return failure(c, fiber.StatusPaymentRequired, "DAO has no AI credits left")
	case errors.Is(err, database.ErrDAONotFound):
		return failure(c, fiber.StatusNotFound, "DAO not found")
	case errors.As(err, &perr):
		log.Error().Err(err).Str("provider", perr.Provider).Msg("🔥 provider call failed")
		return failure(c, fiber.StatusBadGateway, err.Error())
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("🔥 request failed")
	return failure(c, fiber.StatusInternalServerError, "Internal server error")
}
