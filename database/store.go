package database

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/studydao/models"
	"github.com/google/uuid"
)

var (
	ErrLearnerNotFound     = errors.New("learner not found")
	ErrEmailTaken          = errors.New("email already exists")
	ErrUnknownStat         = errors.New("unknown stat")
	ErrDAONotFound         = errors.New("dao not found")
	ErrDAOExists           = errors.New("dao already exists")
	ErrInsufficientCredits = errors.New("dao has no ai credits left")
)

type LearnerStore interface {
	CreateLearner(ctx context.Context, learner *models.Learner) error
	LearnerByEmail(ctx context.Context, email string) (*models.Learner, error)
	LearnerByID(ctx context.Context, id uuid.UUID) (*models.Learner, error)
}

// StatsStore holds per-learner counters and earned badge ids.
type StatsStore interface {
	// Stats returns a zero-valued record when nothing is stored yet.
	Stats(ctx context.Context, learnerID uuid.UUID) (*models.LearnerStats, error)
	Increment(ctx context.Context, learnerID uuid.UUID, field models.StatField, delta float64) (*models.LearnerStats, error)
	// RecordBadge reports whether the badge was newly added.
	RecordBadge(ctx context.Context, learnerID uuid.UUID, badgeID string) (bool, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type DAOStore interface {
	ListDAOs(ctx context.Context) ([]models.DAO, error)
	DAO(ctx context.Context, id string) (*models.DAO, error)
	CreateDAO(ctx context.Context, dao *models.DAO) error
	AddMember(ctx context.Context, id string) (*models.DAO, error)
	AddContribution(ctx context.Context, id string, amount float64, credits int64) (*models.DAO, error)
	SpendCredit(ctx context.Context, id string) (*models.DAO, error)
}

type Store interface {
	LearnerStore
	StatsStore
	DAOStore
}

// DefaultDAOs are the study groups a fresh store starts with. Creation times
// step back one second each so newest-first listing keeps this order.
func DefaultDAOs(now time.Time) []models.DAO {
	daos := []models.DAO{
		{
			ID:              "cs229-ml",
			Name:            "CS229 Machine Learning",
			Subject:         "Computer Science",
			Description:     "Study group for Stanford CS229 - Machine Learning course",
			MemberCount:     12,
			TreasuryBalance: 2.5,
			AICredits:       250,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "calc-3",
			Name:            "Calculus III Study Group",
			Subject:         "Mathematics",
			Description:     "Multivariable calculus and vector analysis",
			MemberCount:     8,
			TreasuryBalance: 1.2,
			AICredits:       120,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "physics-2",
			Name:            "Physics 2 E&M",
			Subject:         "Physics",
			Description:     "Electricity and Magnetism study sessions",
			MemberCount:     15,
			TreasuryBalance: 3.0,
			AICredits:       300,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
	for i := range daos {
		daos[i].CreatedAt = now.Add(-time.Duration(i) * time.Second)
		daos[i].UpdatedAt = daos[i].CreatedAt
	}
	return daos
}

// SeedDAOs inserts the default study groups when the store has none.
func SeedDAOs(ctx context.Context, store DAOStore) (int, error) {
	existing, err := store.ListDAOs(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	seeded := 0
	for _, dao := range DefaultDAOs(time.Now().UTC()) {
		dao := dao
		if err := store.CreateDAO(ctx, &dao); err != nil && !errors.Is(err, ErrDAOExists) {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
