package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/metrics"
	"github.com/anjiri1684/studydao/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultStudentContext = "General learner"

type ChatProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderError marks a failure of an upstream AI or voice provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

type AskInput struct {
	Message string
	Context string
	DAOID   string
}

type Answer struct {
	Message          string    `json:"message"`
	Timestamp        time.Time `json:"timestamp"`
	CreditsRemaining *int64    `json:"credits_remaining,omitempty"`
}

func BuildTutorPrompt(message, studentContext string) string {
	if studentContext == "" {
		studentContext = defaultStudentContext
	}
	return fmt.Sprintf(`You are an expert AI tutor. Be encouraging, clear, and educational.

Student context: %s
Student question: "%s"

Provide a helpful, engaging explanation. Use examples when helpful. Keep it conversational but educational.`, studentContext, message)
}

// TutorService forwards questions to the chat provider. DAO-scoped
// questions need a positive AI credit balance and spend one credit.
type TutorService struct {
	chat  ChatProvider
	stats database.StatsStore
	daos  database.DAOStore
}

func NewTutorService(chat ChatProvider, stats database.StatsStore, daos database.DAOStore) *TutorService {
	return &TutorService{chat: chat, stats: stats, daos: daos}
}

func (s *TutorService) Ask(ctx context.Context, learnerID uuid.UUID, in AskInput) (*Answer, error) {
	if in.DAOID != "" {
		dao, err := s.daos.DAO(ctx, in.DAOID)
		if err != nil {
			return nil, err
		}
		if dao.AICredits <= 0 {
			return nil, database.ErrInsufficientCredits
		}
	}

	text, err := s.chat.Generate(ctx, BuildTutorPrompt(in.Message, in.Context))
	metrics.TutorQuestions.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}

	answer := &Answer{Message: text, Timestamp: time.Now().UTC()}

	if in.DAOID != "" {
		dao, err := s.daos.SpendCredit(ctx, in.DAOID)
		switch {
		case err == nil:
			answer.CreditsRemaining = &dao.AICredits
		case errors.Is(err, database.ErrInsufficientCredits):
			log.Warn().Str("dao_id", in.DAOID).Msg("dao ran out of credits while a question was in flight")
		default:
			log.Error().Err(err).Str("dao_id", in.DAOID).Msg("🔥 failed to spend dao credit")
		}
	}

	if _, err := s.stats.Increment(ctx, learnerID, models.StatQuestionsAsked, 1); err != nil {
		log.Error().Err(err).Str("learner_id", learnerID.String()).Msg("🔥 failed to count question")
	}
	return answer, nil
}
