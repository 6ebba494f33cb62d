package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/studydao/models"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// document is one JSON file rewritten as a whole on every change. The
// mutex serializes writers inside the process, the flock across processes.
type document[T any] struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func newDocument[T any](path string) *document[T] {
	return &document[T]{path: path, lock: flock.New(path + ".lock")}
}

func (d *document[T]) read() (T, error) {
	var doc T
	data, err := os.ReadFile(d.path) //nolint:gosec // path is rooted in the configured data dir
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("reading %s: %w", filepath.Base(d.path), err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parsing %s: %w", filepath.Base(d.path), err)
	}
	return doc, nil
}

func (d *document[T]) write(doc T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(d.path), err)
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(d.path), err)
	}
	return os.Rename(tmp, d.path)
}

func (d *document[T]) view(fn func(doc T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.lock.RLock(); err != nil {
		return fmt.Errorf("locking %s: %w", filepath.Base(d.path), err)
	}
	defer d.lock.Unlock() //nolint:errcheck

	doc, err := d.read()
	if err != nil {
		return err
	}
	return fn(doc)
}

// update runs a full read-modify-write. Nothing is written when fn fails.
func (d *document[T]) update(fn func(doc *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", filepath.Base(d.path), err)
	}
	defer d.lock.Unlock() //nolint:errcheck

	doc, err := d.read()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return d.write(doc)
}

type learnerRecord struct {
	ID            uuid.UUID `json:"id"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r learnerRecord) learner() *models.Learner {
	return &models.Learner{
		ID:            r.ID,
		DisplayName:   r.DisplayName,
		Email:         r.Email,
		Password:      r.PasswordHash,
		WalletAddress: r.WalletAddress,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FileStore keeps each entity type in its own JSON document under a data
// directory: stats.json, daos.json and learners.json.
type FileStore struct {
	learners *document[map[string]learnerRecord]
	stats    *document[map[string]models.LearnerStats]
	daos     *document[[]models.DAO]
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{
		learners: newDocument[map[string]learnerRecord](filepath.Join(dir, "learners.json")),
		stats:    newDocument[map[string]models.LearnerStats](filepath.Join(dir, "stats.json")),
		daos:     newDocument[[]models.DAO](filepath.Join(dir, "daos.json")),
	}, nil
}

func (s *FileStore) CreateLearner(_ context.Context, learner *models.Learner) error {
	if learner.ID == uuid.Nil {
		learner.ID = uuid.New()
	}
	now := time.Now().UTC()
	if learner.CreatedAt.IsZero() {
		learner.CreatedAt = now
	}
	learner.UpdatedAt = now

	return s.learners.update(func(doc *map[string]learnerRecord) error {
		if *doc == nil {
			*doc = make(map[string]learnerRecord)
		}
		for _, existing := range *doc {
			if strings.EqualFold(existing.Email, learner.Email) {
				return ErrEmailTaken
			}
		}
		(*doc)[learner.ID.String()] = learnerRecord{
			ID:            learner.ID,
			DisplayName:   learner.DisplayName,
			Email:         learner.Email,
			PasswordHash:  learner.Password,
			WalletAddress: learner.WalletAddress,
			CreatedAt:     learner.CreatedAt,
			UpdatedAt:     learner.UpdatedAt,
		}
		return nil
	})
}

func (s *FileStore) LearnerByEmail(_ context.Context, email string) (*models.Learner, error) {
	var found *models.Learner
	err := s.learners.view(func(doc map[string]learnerRecord) error {
		for _, rec := range doc {
			if strings.EqualFold(rec.Email, email) {
				found = rec.learner()
				return nil
			}
		}
		return ErrLearnerNotFound
	})
	return found, err
}

func (s *FileStore) LearnerByID(_ context.Context, id uuid.UUID) (*models.Learner, error) {
	var found *models.Learner
	err := s.learners.view(func(doc map[string]learnerRecord) error {
		rec, ok := doc[id.String()]
		if !ok {
			return ErrLearnerNotFound
		}
		found = rec.learner()
		return nil
	})
	return found, err
}

func (s *FileStore) Stats(_ context.Context, learnerID uuid.UUID) (*models.LearnerStats, error) {
	var stats models.LearnerStats
	err := s.stats.view(func(doc map[string]models.LearnerStats) error {
		stats = doc[learnerID.String()]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalizeStats(stats, learnerID), nil
}

func (s *FileStore) Increment(_ context.Context, learnerID uuid.UUID, field models.StatField, delta float64) (*models.LearnerStats, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStat, field)
	}
	var updated models.LearnerStats
	err := s.stats.update(func(doc *map[string]models.LearnerStats) error {
		if *doc == nil {
			*doc = make(map[string]models.LearnerStats)
		}
		key := learnerID.String()
		stats := (*doc)[key]
		stats.Add(field, delta)
		stats.UpdatedAt = time.Now().UTC()
		(*doc)[key] = stats
		updated = stats
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalizeStats(updated, learnerID), nil
}

func (s *FileStore) RecordBadge(_ context.Context, learnerID uuid.UUID, badgeID string) (bool, error) {
	added := false
	err := s.stats.update(func(doc *map[string]models.LearnerStats) error {
		if *doc == nil {
			*doc = make(map[string]models.LearnerStats)
		}
		key := learnerID.String()
		stats := (*doc)[key]
		if stats.HasBadge(badgeID) {
			return errUnchanged
		}
		stats.EarnedBadges = append(stats.EarnedBadges, badgeID)
		stats.UpdatedAt = time.Now().UTC()
		(*doc)[key] = stats
		added = true
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	return added, err
}

func (s *FileStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := s.stats.view(func(doc map[string]models.LearnerStats) error {
		for key, stats := range doc {
			id, err := uuid.Parse(key)
			if err != nil {
				continue
			}
			entries = append(entries, models.LeaderboardEntry{LearnerID: id, QuestionsAsked: stats.QuestionsAsked})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].QuestionsAsked != entries[j].QuestionsAsked {
			return entries[i].QuestionsAsked > entries[j].QuestionsAsked
		}
		return entries[i].LearnerID.String() < entries[j].LearnerID.String()
	})
	// Stats without a learner account are skipped, as the SQL join does.
	ranked := entries[:0]
	for _, entry := range entries {
		if limit > 0 && len(ranked) == limit {
			break
		}
		learner, err := s.LearnerByID(ctx, entry.LearnerID)
		if errors.Is(err, ErrLearnerNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entry.DisplayName = learner.DisplayName
		ranked = append(ranked, entry)
	}
	return ranked, nil
}

func (s *FileStore) ListDAOs(_ context.Context) ([]models.DAO, error) {
	var daos []models.DAO
	err := s.daos.view(func(doc []models.DAO) error {
		daos = append([]models.DAO(nil), doc...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Newest first, matching the SQL driver's ORDER BY.
	sort.SliceStable(daos, func(i, j int) bool {
		if !daos[i].CreatedAt.Equal(daos[j].CreatedAt) {
			return daos[i].CreatedAt.After(daos[j].CreatedAt)
		}
		return daos[i].ID < daos[j].ID
	})
	return daos, nil
}

func (s *FileStore) DAO(_ context.Context, id string) (*models.DAO, error) {
	var found *models.DAO
	err := s.daos.view(func(doc []models.DAO) error {
		for i := range doc {
			if doc[i].ID == id {
				dao := doc[i]
				found = &dao
				return nil
			}
		}
		return ErrDAONotFound
	})
	return found, err
}

func (s *FileStore) CreateDAO(_ context.Context, dao *models.DAO) error {
	now := time.Now().UTC()
	if dao.CreatedAt.IsZero() {
		dao.CreatedAt = now
	}
	dao.UpdatedAt = now
	return s.daos.update(func(doc *[]models.DAO) error {
		for _, existing := range *doc {
			if existing.ID == dao.ID {
				return fmt.Errorf("%w: %s", ErrDAOExists, dao.ID)
			}
		}
		*doc = append(*doc, *dao)
		return nil
	})
}

func (s *FileStore) AddMember(_ context.Context, id string) (*models.DAO, error) {
	return s.mutateDAO(id, func(dao *models.DAO) error {
		dao.MemberCount++
		return nil
	})
}

func (s *FileStore) AddContribution(_ context.Context, id string, amount float64, credits int64) (*models.DAO, error) {
	return s.mutateDAO(id, func(dao *models.DAO) error {
		dao.TreasuryBalance += amount
		dao.AICredits += credits
		return nil
	})
}

func (s *FileStore) SpendCredit(_ context.Context, id string) (*models.DAO, error) {
	return s.mutateDAO(id, func(dao *models.DAO) error {
		if dao.AICredits <= 0 {
			return ErrInsufficientCredits
		}
		dao.AICredits--
		return nil
	})
}

func (s *FileStore) mutateDAO(id string, fn func(dao *models.DAO) error) (*models.DAO, error) {
	var updated models.DAO
	err := s.daos.update(func(doc *[]models.DAO) error {
		for i := range *doc {
			dao := &(*doc)[i]
			if dao.ID != id {
				continue
			}
			if err := fn(dao); err != nil {
				return err
			}
			dao.UpdatedAt = time.Now().UTC()
			updated = *dao
			return nil
		}
		return ErrDAONotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

var errUnchanged = errors.New("document unchanged")

func normalizeStats(stats models.LearnerStats, learnerID uuid.UUID) *models.LearnerStats {
	stats.LearnerID = learnerID
	if stats.EarnedBadges == nil {
		stats.EarnedBadges = []string{}
	}
	return &stats
}
