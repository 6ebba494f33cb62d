package handlers

import (
	"github.com/anjiri1684/studydao/services"
	"github.com/gofiber/fiber/v2"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	Context string `json:"context" validate:"max=1000"`
	DAOID   string `json:"dao_id"`
}

type VoiceRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	if h.Tutor == nil {
		return failure(c, fiber.StatusServiceUnavailable, "AI tutor is not configured")
	}
	learnerID, err := currentLearner(c)
	if err != nil {
		return err
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return failure(c, fiber.StatusBadRequest, err.Error())
	}

	answer, err := h.Tutor.Ask(c.UserContext(), learnerID, services.AskInput{
		Message: req.Message,
		Context: req.Context,
		DAOID:   req.DAOID,
	})
	if err != nil {
		return providerFailure(c, err)
	}

	resp := fiber.Map{
		"success":   true,
		"message":   answer.Message,
		"timestamp": answer.Timestamp,
	}
	if answer.CreditsRemaining != nil {
		resp["credits_remaining"] = *answer.CreditsRemaining
	}
	return c.JSON(resp)
}

func (h *Handler) SynthesizeVoice(c *fiber.Ctx) error {
	if h.Voice == nil {
		return failure(c, fiber.StatusServiceUnavailable, "Voice synthesis is not configured")
	}

	var req VoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return failure(c, fiber.StatusBadRequest, err.Error())
	}

	audio, err := h.Voice.Synthesize(c.UserContext(), req.Text)
	if err != nil {
		return providerFailure(c, err)
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}
