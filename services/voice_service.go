package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjiri1684/studydao/metrics"
)

const (
	elevenLabsDefaultBaseURL = "https://api.elevenlabs.io/v1"
	elevenLabsDefaultVoice   = "21m00Tcm4TlvDq8ikWAM"
	elevenLabsModel          = "eleven_turbo_v2_5"
	maxAudioBytes            = 20 << 20
)

type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type ElevenLabsOptions struct {
	APIKey     string
	VoiceID    string
	BaseURL    string
	HTTPClient *http.Client
}

type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func NewElevenLabsClient(opts ElevenLabsOptions) (*ElevenLabsClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("elevenlabs api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = elevenLabsDefaultBaseURL
	}
	voice := opts.VoiceID
	if voice == "" {
		voice = elevenLabsDefaultVoice
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ElevenLabsClient{apiKey: opts.APIKey, voiceID: voice, baseURL: baseURL, client: client}, nil
}

// Synthesize returns MPEG audio for text.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) (audio []byte, err error) {
	defer func() { metrics.VoiceSyntheses.WithLabelValues(metrics.Outcome(err)).Inc() }()

	body, err := json.Marshal(ttsRequest{
		Text:          text,
		ModelID:       elevenLabsModel,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "elevenlabs", Err: fmt.Errorf("invoke elevenlabs: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &ProviderError{
			Provider: "elevenlabs",
			Err:      fmt.Errorf("ElevenLabs API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(errText))),
		}
	}

	audio, err = io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, &ProviderError{Provider: "elevenlabs", Err: fmt.Errorf("read audio: %w", err)}
	}
	return audio, nil
}
