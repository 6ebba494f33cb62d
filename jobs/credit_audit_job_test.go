package jobs

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/models"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditTreasuryCredits(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)

	now := time.Now().UTC()
	for _, dao := range []models.DAO{
		{ID: "balanced", Name: "Balanced", Subject: "Math", MemberCount: 1, TreasuryBalance: 0.29, AICredits: 29, CreatedAt: now},
		{ID: "spent", Name: "Spent", Subject: "Math", MemberCount: 1, TreasuryBalance: 1, AICredits: 40, CreatedAt: now},
		{ID: "drifted", Name: "Drifted", Subject: "Math", MemberCount: 1, TreasuryBalance: 0.5, AICredits: 51, CreatedAt: now},
		{ID: "just-under", Name: "Just Under", Subject: "Math", MemberCount: 1, TreasuryBalance: 0.009999999999, AICredits: 1, CreatedAt: now},
		{ID: "empty", Name: "Empty", Subject: "Math", MemberCount: 1, CreatedAt: now},
	} {
		dao := dao
		require.NoError(t, store.CreateDAO(ctx, &dao))
	}

	drifted, err := AuditTreasuryCredits(ctx, store)
	require.NoError(t, err)
	ids := make([]string, 0, len(drifted))
	for _, dao := range drifted {
		ids = append(ids, dao.ID)
	}
	assert.ElementsMatch(t, []string{"drifted", "just-under"}, ids)
}

func TestBackedCredits(t *testing.T) {
	assert.Equal(t, int64(29), backedCredits(0.29))
	assert.Equal(t, int64(0), backedCredits(0.009999999999))
	assert.Equal(t, int64(0), backedCredits(0))
	assert.Equal(t, int64(math.MaxInt64), backedCredits(1e18))
}

func TestAuditTreasuryCredits_SeededDAOsAreBacked(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = database.SeedDAOs(ctx, store)
	require.NoError(t, err)

	drifted, err := AuditTreasuryCredits(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, drifted)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, Schedule(c, store))
	assert.Len(t, c.Entries(), 1)
}
