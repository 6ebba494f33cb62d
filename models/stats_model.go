package models

import (
	"time"

	"github.com/google/uuid"
)

// StatField names one numeric counter of LearnerStats.
type StatField string

const (
	StatQuestionsAsked   StatField = "questions_asked"
	StatDAOsCreated      StatField = "daos_created"
	StatDAOsJoined       StatField = "daos_joined"
	StatTotalContributed StatField = "total_contributed"
)

func (f StatField) Valid() bool {
	switch f {
	case StatQuestionsAsked, StatDAOsCreated, StatDAOsJoined, StatTotalContributed:
		return true
	}
	return false
}

type LearnerStats struct {
	LearnerID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	QuestionsAsked   int64     `gorm:"column:questions_asked;not null" json:"questions_asked"`
	DAOsCreated      int64     `gorm:"column:daos_created;not null" json:"daos_created"`
	DAOsJoined       int64     `gorm:"column:daos_joined;not null" json:"daos_joined"`
	TotalContributed float64   `gorm:"column:total_contributed;type:numeric(20,9);not null" json:"total_contributed"`
	EarnedBadges     []string  `gorm:"-" json:"earned_badges"`
	UpdatedAt        time.Time `json:"-"`
}

func (LearnerStats) TableName() string { return "learner_stats" }

// Add applies delta to the named counter. Integer counters are truncated.
func (s *LearnerStats) Add(field StatField, delta float64) bool {
	switch field {
	case StatQuestionsAsked:
		s.QuestionsAsked += int64(delta)
	case StatDAOsCreated:
		s.DAOsCreated += int64(delta)
	case StatDAOsJoined:
		s.DAOsJoined += int64(delta)
	case StatTotalContributed:
		s.TotalContributed += delta
	default:
		return false
	}
	return true
}

func (s *LearnerStats) HasBadge(badgeID string) bool {
	for _, id := range s.EarnedBadges {
		if id == badgeID {
			return true
		}
	}
	return false
}

type LeaderboardEntry struct {
	LearnerID      uuid.UUID `json:"learner_id"`
	DisplayName    string    `json:"display_name"`
	QuestionsAsked int64     `json:"questions_asked"`
}
