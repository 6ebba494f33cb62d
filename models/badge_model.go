package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rarity orders badges from common to legendary.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = [...]string{"common", "rare", "epic", "legendary"}

func (r Rarity) String() string {
	if r < RarityCommon || r > RarityLegendary {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}

func (r Rarity) MarshalText() ([]byte, error) {
	if r < RarityCommon || r > RarityLegendary {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(rarityNames[r]), nil
}

func (r *Rarity) UnmarshalText(text []byte) error {
	for i, name := range rarityNames {
		if name == string(text) {
			*r = Rarity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rarity %q", string(text))
}

// Badge is a static catalog entry. Badges are never stored; only the ids a
// learner has earned are.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
	Requirement string `json:"requirement"`
	Color       string `json:"color"`
}

type EarnedBadge struct {
	LearnerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"learner_id"`
	BadgeID   string    `gorm:"size:64;primaryKey" json:"badge_id"`
	EarnedAt  time.Time `json:"earned_at"`
}

// BadgeProgress is a catalog entry annotated for one learner.
type BadgeProgress struct {
	Badge
	Eligible bool `json:"eligible"`
	Earned   bool `json:"earned"`
}
