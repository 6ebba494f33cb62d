package services

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.DAOEvent
}

func (p *recordingPublisher) Publish(event models.DAOEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func newDAOService(t *testing.T) (*DAOService, *database.FileStore, *recordingPublisher) {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	pub := &recordingPublisher{}
	return NewDAOService(store, store, pub), store, pub
}

func TestDAOService_CreateSeedsCounters(t *testing.T) {
	svc, store, pub := newDAOService(t)
	ctx := context.Background()
	learner := uuid.New()

	dao, err := svc.Create(ctx, learner, CreateDAOInput{Name: "Linear Algebra Crew", Subject: "Mathematics"})
	require.NoError(t, err)

	assert.Equal(t, "linear-algebra-crew", dao.ID)
	assert.Equal(t, int64(1), dao.MemberCount)
	assert.Zero(t, dao.TreasuryBalance)
	assert.Zero(t, dao.AICredits)

	stats, err := store.Stats(ctx, learner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.DAOsCreated)
	assert.True(t, BadgeEligible(BadgeDAOFounder, *stats))

	require.Len(t, pub.events, 1)
	assert.Equal(t, models.DAOEventCreated, pub.events[0].Type)
}

func TestDAOService_CreateRejectsCollisionAndBlankName(t *testing.T) {
	svc, _, _ := newDAOService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), CreateDAOInput{Name: "Chem Lab", Subject: "Chemistry"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, uuid.New(), CreateDAOInput{Name: "chem   lab", Subject: "Chemistry"})
	assert.ErrorIs(t, err, database.ErrDAOExists)

	_, err = svc.Create(ctx, uuid.New(), CreateDAOInput{Name: "   ", Subject: "Chemistry"})
	assert.ErrorIs(t, err, ErrInvalidDAOName)
}

func TestDAOService_Join(t *testing.T) {
	svc, store, _ := newDAOService(t)
	ctx := context.Background()
	learner := uuid.New()

	_, err := svc.Create(ctx, uuid.New(), CreateDAOInput{Name: "Bio", Subject: "Biology"})
	require.NoError(t, err)

	dao, err := svc.Join(ctx, learner, "bio")
	require.NoError(t, err)
	assert.Equal(t, int64(2), dao.MemberCount)

	stats, err := store.Stats(ctx, learner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.DAOsJoined)

	_, err = svc.Join(ctx, learner, "missing")
	assert.ErrorIs(t, err, database.ErrDAONotFound)

	stats, err = store.Stats(ctx, learner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.DAOsJoined)
}

func TestDAOService_Contribute(t *testing.T) {
	svc, store, pub := newDAOService(t)
	ctx := context.Background()
	learner := uuid.New()

	_, err := svc.Create(ctx, learner, CreateDAOInput{Name: "Bio", Subject: "Biology"})
	require.NoError(t, err)

	res, err := svc.Contribute(ctx, learner, "bio", 1.25)
	require.NoError(t, err)
	assert.Equal(t, int64(125), res.CreditsAdded)
	assert.InDelta(t, 1.25, res.DAO.TreasuryBalance, 1e-9)
	assert.Equal(t, int64(125), res.DAO.AICredits)

	res, err = svc.Contribute(ctx, learner, "bio", 0.005)
	require.NoError(t, err)
	assert.Zero(t, res.CreditsAdded)
	assert.Equal(t, int64(125), res.DAO.AICredits)

	stats, err := store.Stats(ctx, learner)
	require.NoError(t, err)
	assert.InDelta(t, 1.255, stats.TotalContributed, 1e-9)
	assert.True(t, BadgeEligible(BadgeDAOPatron, *stats))

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, models.DAOEventContributed, last.Type)
	assert.InDelta(t, 0.005, last.Amount, 1e-12)
}

func TestDAOService_ContributeRejectsBadAmounts(t *testing.T) {
	svc, store, pub := newDAOService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateDAO(ctx, &models.DAO{ID: "bio", Name: "Bio", MemberCount: 1}))

	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1), 1e10, 1e18, math.MaxFloat64} {
		_, err := svc.Contribute(ctx, uuid.New(), "bio", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}

	dao, err := store.DAO(ctx, "bio")
	require.NoError(t, err)
	assert.Zero(t, dao.AICredits)
	assert.Zero(t, dao.TreasuryBalance)
	assert.Empty(t, pub.events)
}

func TestDAOService_ContributeAcceptsLargestAmount(t *testing.T) {
	svc, store, _ := newDAOService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateDAO(ctx, &models.DAO{ID: "whale", Name: "Whale", MemberCount: 1}))

	result, err := svc.Contribute(ctx, uuid.New(), "whale", MaxContributionSOL)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000_000), result.CreditsAdded)
	assert.Equal(t, int64(100_000_000_000), result.DAO.AICredits)
}

func TestCreditsForAmount(t *testing.T) {
	cases := map[float64]int64{
		0.01:           1,
		0.29:           29,
		0.5:            50,
		1:              100,
		1.999:          199,
		2.5:            250,
		0.009:          0,
		0.009999999999: 0,
		0.0199999999:   1,
		0.2899999999:   28,
		1e9:            100_000_000_000,
		9e16:           9_000_000_000_000_000_000,
	}
	for amount, want := range cases {
		got, err := CreditsForAmount(amount)
		require.NoError(t, err, "amount %v", amount)
		assert.Equal(t, want, got, "amount %v", amount)
	}
}

func TestCreditsForAmountRejectsOverflow(t *testing.T) {
	for _, amount := range []float64{1e17, 1e18, math.MaxFloat64, 0, -0.5, math.NaN(), math.Inf(-1)} {
		credits, err := CreditsForAmount(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
		assert.Zero(t, credits)
	}
}

func TestDAOService_SpendCredit(t *testing.T) {
	svc, _, _ := newDAOService(t)
	ctx := context.Background()
	learner := uuid.New()

	_, err := svc.Create(ctx, learner, CreateDAOInput{Name: "Bio", Subject: "Biology"})
	require.NoError(t, err)

	_, err = svc.SpendCredit(ctx, "bio")
	assert.ErrorIs(t, err, database.ErrInsufficientCredits)

	_, err = svc.Contribute(ctx, learner, "bio", 0.02)
	require.NoError(t, err)

	dao, err := svc.SpendCredit(ctx, "bio")
	require.NoError(t, err)
	assert.Equal(t, int64(1), dao.AICredits)
}
