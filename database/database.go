package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/studydao/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info().Msg("✅ Database connected successfully")
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Learner{},
		&models.LearnerStats{},
		&models.EarnedBadge{},
		&models.DAO{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info().Msg("✅ Database migration successful")
	return nil
}

// GormStore is the postgres-backed Store. Counter updates are single
// statements; writes that span learners and DAOs are not transactional.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateLearner(ctx context.Context, learner *models.Learner) error {
	if learner.ID == uuid.Nil {
		learner.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(learner).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create learner: %w", err)
	}
	return nil
}

func (s *GormStore) LearnerByEmail(ctx context.Context, email string) (*models.Learner, error) {
	var learner models.Learner
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&learner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("find learner: %w", err)
	}
	return &learner, nil
}

func (s *GormStore) LearnerByID(ctx context.Context, id uuid.UUID) (*models.Learner, error) {
	var learner models.Learner
	if err := s.db.WithContext(ctx).First(&learner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("find learner: %w", err)
	}
	return &learner, nil
}

func (s *GormStore) Stats(ctx context.Context, learnerID uuid.UUID) (*models.LearnerStats, error) {
	var stats models.LearnerStats
	err := s.db.WithContext(ctx).First(&stats, "learner_id = ?", learnerID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	stats.LearnerID = learnerID

	var earned []models.EarnedBadge
	if err := s.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("earned_at asc").
		Find(&earned).Error; err != nil {
		return nil, fmt.Errorf("load earned badges: %w", err)
	}
	stats.EarnedBadges = make([]string, 0, len(earned))
	for _, eb := range earned {
		stats.EarnedBadges = append(stats.EarnedBadges, eb.BadgeID)
	}
	return &stats, nil
}

func (s *GormStore) Increment(ctx context.Context, learnerID uuid.UUID, field models.StatField, delta float64) (*models.LearnerStats, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStat, field)
	}

	var param interface{} = int64(delta)
	if field == models.StatTotalContributed {
		param = delta
	}

	now := time.Now().UTC()
	row := models.LearnerStats{LearnerID: learnerID, UpdatedAt: now}
	row.Add(field, delta)

	col := string(field)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "learner_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			col:          gorm.Expr("learner_stats."+col+" + ?", param),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("increment %s: %w", field, err)
	}
	return s.Stats(ctx, learnerID)
}

func (s *GormStore) RecordBadge(ctx context.Context, learnerID uuid.UUID, badgeID string) (bool, error) {
	eb := models.EarnedBadge{LearnerID: learnerID, BadgeID: badgeID, EarnedAt: time.Now().UTC()}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&eb)
	if result.Error != nil {
		return false, fmt.Errorf("record badge: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Table("learner_stats").
		Select("learner_stats.learner_id, learners.display_name, learner_stats.questions_asked").
		Joins("JOIN learners ON learners.id = learner_stats.learner_id").
		Order("learner_stats.questions_asked desc, learner_stats.learner_id asc").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return entries, nil
}

func (s *GormStore) ListDAOs(ctx context.Context) ([]models.DAO, error) {
	var daos []models.DAO
	if err := s.db.WithContext(ctx).Order("created_at desc, id asc").Find(&daos).Error; err != nil {
		return nil, fmt.Errorf("list daos: %w", err)
	}
	return daos, nil
}

func (s *GormStore) DAO(ctx context.Context, id string) (*models.DAO, error) {
	var dao models.DAO
	if err := s.db.WithContext(ctx).First(&dao, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDAONotFound
		}
		return nil, fmt.Errorf("find dao: %w", err)
	}
	return &dao, nil
}

func (s *GormStore) CreateDAO(ctx context.Context, dao *models.DAO) error {
	if err := s.db.WithContext(ctx).Create(dao).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDAOExists, dao.ID)
		}
		return fmt.Errorf("create dao: %w", err)
	}
	return nil
}

func (s *GormStore) AddMember(ctx context.Context, id string) (*models.DAO, error) {
	return s.updateDAO(ctx, id, "", map[string]interface{}{
		"member_count": gorm.Expr("member_count + ?", 1),
	})
}

func (s *GormStore) AddContribution(ctx context.Context, id string, amount float64, credits int64) (*models.DAO, error) {
	return s.updateDAO(ctx, id, "", map[string]interface{}{
		"treasury_balance": gorm.Expr("treasury_balance + ?", amount),
		"ai_credits":       gorm.Expr("ai_credits + ?", credits),
	})
}

func (s *GormStore) SpendCredit(ctx context.Context, id string) (*models.DAO, error) {
	dao, err := s.updateDAO(ctx, id, "ai_credits > 0", map[string]interface{}{
		"ai_credits": gorm.Expr("ai_credits - ?", 1),
	})
	if errors.Is(err, ErrDAONotFound) {
		if _, lookupErr := s.DAO(ctx, id); lookupErr == nil {
			return nil, ErrInsufficientCredits
		}
	}
	return dao, err
}

// updateDAO applies columns to one DAO and reloads it. A zero row count is
// reported as ErrDAONotFound.
func (s *GormStore) updateDAO(ctx context.Context, id, guard string, columns map[string]interface{}) (*models.DAO, error) {
	columns["updated_at"] = time.Now().UTC()
	q := s.db.WithContext(ctx).Model(&models.DAO{}).Where("id = ?", id)
	if guard != "" {
		q = q.Where(guard)
	}
	result := q.UpdateColumns(columns)
	if result.Error != nil {
		return nil, fmt.Errorf("update dao: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrDAONotFound
	}
	return s.DAO(ctx, id)
}
