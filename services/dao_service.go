package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/metrics"
	"github.com/anjiri1684/studydao/models"
	"github.com/anjiri1684/studydao/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	// CreditsPerSOL is how many AI credits one contributed SOL unlocks.
	CreditsPerSOL = 100
	// MaxContributionSOL bounds a single contribution.
	MaxContributionSOL = 1e9
)

var maxCredits = decimal.NewFromInt(math.MaxInt64)

var (
	ErrInvalidAmount  = errors.New("contribution amount must be a positive number no greater than 1000000000")
	ErrInvalidDAOName = errors.New("dao name must contain a non-whitespace character")
)

type EventPublisher interface {
	Publish(event models.DAOEvent)
}

type CreateDAOInput struct {
	Name          string
	Subject       string
	Description   string
	CoverImageURL *string
}

type Contribution struct {
	DAO          *models.DAO `json:"dao"`
	Amount       float64     `json:"amount"`
	CreditsAdded int64       `json:"credits_added"`
}

// DAOService applies DAO mutations and bumps the acting learner's counters.
// The DAO write and the stats write are independent; a failed stats write
// is logged and does not undo the DAO change.
type DAOService struct {
	daos   database.DAOStore
	stats  database.StatsStore
	events EventPublisher
}

func NewDAOService(daos database.DAOStore, stats database.StatsStore, events EventPublisher) *DAOService {
	return &DAOService{daos: daos, stats: stats, events: events}
}

// CreditsForAmount is floor(100 * amount), computed on the shortest decimal
// form of amount so 0.29 yields 29 and 0.0099999 yields 0. Amounts that are
// not finite and positive, or whose credits overflow int64, are rejected.
func CreditsForAmount(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	credits := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(CreditsPerSOL)).Floor()
	if credits.GreaterThan(maxCredits) {
		return 0, ErrInvalidAmount
	}
	return credits.IntPart(), nil
}

func (s *DAOService) Create(ctx context.Context, learnerID uuid.UUID, in CreateDAOInput) (*models.DAO, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidDAOName
	}
	now := time.Now().UTC()
	dao := &models.DAO{
		ID:              utils.Slugify(in.Name),
		Name:            in.Name,
		Subject:         in.Subject,
		Description:     in.Description,
		MemberCount:     1,
		TreasuryBalance: 0,
		AICredits:       0,
		CoverImageURL:   in.CoverImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.daos.CreateDAO(ctx, dao); err != nil {
		return nil, err
	}

	s.bumpStat(ctx, learnerID, models.StatDAOsCreated, 1)
	s.publish(models.DAOEventCreated, dao, 0)
	return dao, nil
}

func (s *DAOService) Join(ctx context.Context, learnerID uuid.UUID, daoID string) (*models.DAO, error) {
	dao, err := s.daos.AddMember(ctx, daoID)
	if err != nil {
		return nil, err
	}

	s.bumpStat(ctx, learnerID, models.StatDAOsJoined, 1)
	s.publish(models.DAOEventJoined, dao, 0)
	return dao, nil
}

func (s *DAOService) Contribute(ctx context.Context, learnerID uuid.UUID, daoID string, amount float64) (*Contribution, error) {
	if amount > MaxContributionSOL {
		return nil, ErrInvalidAmount
	}
	credits, err := CreditsForAmount(amount)
	if err != nil {
		return nil, err
	}

	dao, err := s.daos.AddContribution(ctx, daoID, amount, credits)
	if err != nil {
		return nil, err
	}

	s.bumpStat(ctx, learnerID, models.StatTotalContributed, amount)
	metrics.TreasuryContributed.Add(amount)
	s.publish(models.DAOEventContributed, dao, amount)
	return &Contribution{DAO: dao, Amount: amount, CreditsAdded: credits}, nil
}

// SpendCredit takes one AI credit from the DAO.
func (s *DAOService) SpendCredit(ctx context.Context, daoID string) (*models.DAO, error) {
	return s.daos.SpendCredit(ctx, daoID)
}

func (s *DAOService) bumpStat(ctx context.Context, learnerID uuid.UUID, field models.StatField, delta float64) {
	if _, err := s.stats.Increment(ctx, learnerID, field, delta); err != nil {
		log.Error().Err(err).
			Str("learner_id", learnerID.String()).
			Str("stat", string(field)).
			Msg("🔥 failed to update learner stats after dao change")
	}
}

func (s *DAOService) publish(eventType string, dao *models.DAO, amount float64) {
	metrics.DAOEvents.WithLabelValues(eventType).Inc()
	if s.events == nil {
		return
	}
	s.events.Publish(models.DAOEvent{Type: eventType, DAO: *dao, Amount: amount, At: time.Now().UTC()})
}
