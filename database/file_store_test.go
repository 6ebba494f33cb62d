package database

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/studydao/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestFileStore_StatsZeroWhenNothingStored(t *testing.T) {
	store, _ := newTestFileStore(t)
	id := uuid.New()

	stats, err := store.Stats(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, stats.LearnerID)
	assert.Zero(t, stats.QuestionsAsked)
	assert.Zero(t, stats.DAOsCreated)
	assert.Zero(t, stats.DAOsJoined)
	assert.Zero(t, stats.TotalContributed)
	assert.Empty(t, stats.EarnedBadges)
	assert.NotNil(t, stats.EarnedBadges)
}

func TestFileStore_Increment(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := store.Increment(ctx, id, models.StatQuestionsAsked, 1)
	require.NoError(t, err)
	stats, err := store.Increment(ctx, id, models.StatQuestionsAsked, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.QuestionsAsked)

	stats, err = store.Increment(ctx, id, models.StatTotalContributed, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, stats.TotalContributed, 1e-9)

	reloaded, err := store.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reloaded.QuestionsAsked)
	assert.InDelta(t, 0.25, reloaded.TotalContributed, 1e-9)
}

func TestFileStore_IncrementUnknownField(t *testing.T) {
	store, _ := newTestFileStore(t)

	_, err := store.Increment(context.Background(), uuid.New(), models.StatField("karma"), 1)
	assert.ErrorIs(t, err, ErrUnknownStat)
}

func TestFileStore_RecordBadgeIsIdempotent(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()
	id := uuid.New()

	added, err := store.RecordBadge(ctx, id, "first-question")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.RecordBadge(ctx, id, "first-question")
	require.NoError(t, err)
	assert.False(t, added)

	stats, err := store.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-question"}, stats.EarnedBadges)
}

func TestFileStore_ConcurrentIncrementsAreSerialized(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(ctx, id, models.StatDAOsJoined, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := store.Stats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.DAOsJoined)
}

func TestFileStore_MalformedDocumentSurfacesParseError(t *testing.T) {
	store, dir := newTestFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats.json"), []byte("{not json"), 0o600))

	_, err := store.Stats(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing stats.json")
}

func TestFileStore_DAOLifecycle(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	dao := &models.DAO{ID: "rust-club", Name: "Rust Club", Subject: "Computer Science", MemberCount: 1}
	require.NoError(t, store.CreateDAO(ctx, dao))
	assert.False(t, dao.CreatedAt.IsZero())

	err := store.CreateDAO(ctx, &models.DAO{ID: "rust-club", Name: "Rust  Club"})
	assert.ErrorIs(t, err, ErrDAOExists)

	joined, err := store.AddMember(ctx, "rust-club")
	require.NoError(t, err)
	assert.Equal(t, int64(2), joined.MemberCount)

	funded, err := store.AddContribution(ctx, "rust-club", 0.5, 50)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, funded.TreasuryBalance, 1e-9)
	assert.Equal(t, int64(50), funded.AICredits)

	spent, err := store.SpendCredit(ctx, "rust-club")
	require.NoError(t, err)
	assert.Equal(t, int64(49), spent.AICredits)

	all, err := store.ListDAOs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(49), all[0].AICredits)
}

func TestFileStore_DAOErrors(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	_, err := store.DAO(ctx, "missing")
	assert.ErrorIs(t, err, ErrDAONotFound)

	_, err = store.AddMember(ctx, "missing")
	assert.ErrorIs(t, err, ErrDAONotFound)

	require.NoError(t, store.CreateDAO(ctx, &models.DAO{ID: "broke", Name: "broke", MemberCount: 1}))
	_, err = store.SpendCredit(ctx, "broke")
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	dao, err := store.DAO(ctx, "broke")
	require.NoError(t, err)
	assert.Zero(t, dao.AICredits)
}

func TestFileStore_Learners(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	learner := &models.Learner{DisplayName: "Ada Lovelace", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, store.CreateLearner(ctx, learner))
	require.NotEqual(t, uuid.Nil, learner.ID)

	err := store.CreateLearner(ctx, &models.Learner{DisplayName: "Other", Email: "ADA@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	byEmail, err := store.LearnerByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, learner.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.Password)

	_, err = store.LearnerByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrLearnerNotFound)
}

func TestFileStore_Leaderboard(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	ada := &models.Learner{DisplayName: "Ada", Email: "ada@example.com", Password: "x"}
	alan := &models.Learner{DisplayName: "Alan", Email: "alan@example.com", Password: "x"}
	require.NoError(t, store.CreateLearner(ctx, ada))
	require.NoError(t, store.CreateLearner(ctx, alan))

	_, err := store.Increment(ctx, ada.ID, models.StatQuestionsAsked, 3)
	require.NoError(t, err)
	_, err = store.Increment(ctx, alan.ID, models.StatQuestionsAsked, 7)
	require.NoError(t, err)

	board, err := store.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Alan", board[0].DisplayName)
	assert.Equal(t, int64(7), board[0].QuestionsAsked)
}

func TestFileStore_LeaderboardSkipsStatsWithoutAccount(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	ada := &models.Learner{DisplayName: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, store.CreateLearner(ctx, ada))
	_, err := store.Increment(ctx, ada.ID, models.StatQuestionsAsked, 2)
	require.NoError(t, err)

	orphan := uuid.New()
	_, err = store.Increment(ctx, orphan, models.StatQuestionsAsked, 50)
	require.NoError(t, err)

	board, err := store.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, ada.ID, board[0].LearnerID)
	assert.Equal(t, "Ada", board[0].DisplayName)

	board, err = store.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, board, 1)
}

func TestFileStore_LeaderboardBreaksTiesByLearnerID(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		learner := &models.Learner{DisplayName: email, Email: email, Password: "x"}
		require.NoError(t, store.CreateLearner(ctx, learner))
		_, err := store.Increment(ctx, learner.ID, models.StatQuestionsAsked, 4)
		require.NoError(t, err)
		ids = append(ids, learner.ID.String())
	}
	sort.Strings(ids)

	board, err := store.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 3)
	for i, entry := range board {
		assert.Equal(t, ids[i], entry.LearnerID.String())
	}
}

func TestFileStore_ListDAOsNewestFirst(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		dao := &models.DAO{ID: id, Name: id, MemberCount: 1, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.CreateDAO(ctx, dao))
	}
	require.NoError(t, store.CreateDAO(ctx, &models.DAO{ID: "a-tied", Name: "tied", MemberCount: 1, CreatedAt: base}))

	all, err := store.ListDAOs(ctx)
	require.NoError(t, err)
	got := make([]string, 0, len(all))
	for _, dao := range all {
		got = append(got, dao.ID)
	}
	assert.Equal(t, []string{"newest", "middle", "a-tied", "oldest"}, got)
}

func TestSeedDAOs(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	seeded, err := SeedDAOs(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 3, seeded)

	seeded, err = SeedDAOs(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	dao, err := store.DAO(ctx, "cs229-ml")
	require.NoError(t, err)
	assert.Equal(t, int64(250), dao.AICredits)

	all, err := store.ListDAOs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "cs229-ml", all[0].ID)
	assert.Equal(t, "calc-3", all[1].ID)
	assert.Equal(t, "physics-2", all[2].ID)
}
