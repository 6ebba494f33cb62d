package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/models"
	"github.com/anjiri1684/studydao/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

type RegisterRequest struct {
	DisplayName   string  `json:"display_name" validate:"required,min=2,max=64"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=6"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	wallet, err := registrationWallet(req.WalletAddress)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	now := time.Now().UTC()
	learner := &models.Learner{
		ID:            uuid.New(),
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Password:      string(hashedPassword),
		WalletAddress: wallet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Store.CreateLearner(c.UserContext(), learner); err != nil {
		return storeError(c, err)
	}

	if h.Mailer != nil {
		go func(l models.Learner) {
			body := fmt.Sprintf("<h1>Welcome to StudyDAO, %s!</h1><p>Ask your first question to earn the Curious Beginner badge.</p>", html.EscapeString(l.DisplayName))
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := h.Mailer.Send(ctx, l.Email, l.DisplayName, "Welcome!", body); err != nil {
				log.Error().Err(err).Str("learner_id", l.ID.String()).Msg("🔥 failed to send welcome email")
			}
		}(*learner)
	}

	return c.Status(fiber.StatusCreated).JSON(learner)
}

// registrationWallet drops a blank wallet and rejects one that is not a
// base58 ed25519 public key.
func registrationWallet(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	key, err := services.ParsePublicKey(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	wallet := key.String()
	return &wallet, nil
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	learner, err := h.Store.LearnerByEmail(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, database.ErrLearnerNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return storeError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(learner.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	t, err := h.issueToken(learner.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	return c.JSON(fiber.Map{"token": t, "learner": learner})
}

func (h *Handler) issueToken(learnerID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": learnerID.String(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.JWTSecret))
}
