package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const brevoDefaultBaseURL = "https://api.brevo.com/v3"

// BrevoService sends transactional email through the Brevo SMTP API.
type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	BaseURL     string
	client      *http.Client
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoPayload struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// NewBrevoService returns nil when any setting is missing, which disables
// email.
func NewBrevoService(apiKey, senderEmail, senderName, baseURL string) *BrevoService {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Warn().Msg("⚠️ Email service not configured. Missing API key, sender email or sender name.")
		return nil
	}
	if baseURL == "" {
		baseURL = brevoDefaultBaseURL
	}
	log.Info().Str("sender", senderEmail).Msg("✅ Email service initialized")
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoService) Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	at := strings.Index(toEmail, "@")
	if at <= 0 {
		return fmt.Errorf("invalid recipient email: %q", toEmail)
	}
	if toName == "" {
		toName = toEmail[:at]
	}

	body, err := json.Marshal(brevoPayload{
		Sender:      brevoContact{Name: s.SenderName, Email: s.SenderEmail},
		To:          []brevoContact{{Name: toName, Email: toEmail}},
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
		return fmt.Errorf("brevo status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	log.Debug().Str("to", toEmail).Str("subject", subject).Msg("email sent")
	return nil
}
