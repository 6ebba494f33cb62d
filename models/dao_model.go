package models

import "time"

// DAO is a study group. AICredits is derived from contributions but stored
// on its own, so it can drift from TreasuryBalance.
type DAO struct {
	ID              string    `gorm:"size:255;primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Subject         string    `gorm:"size:100;not null" json:"subject"`
	Description     string    `gorm:"type:text" json:"description"`
	MemberCount     int64     `gorm:"column:member_count;not null" json:"member_count"`
	TreasuryBalance float64   `gorm:"column:treasury_balance;type:numeric(20,9);not null" json:"treasury_balance"`
	AICredits       int64     `gorm:"column:ai_credits;not null" json:"ai_credits"`
	CoverImageURL   *string   `gorm:"size:512" json:"cover_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (DAO) TableName() string { return "daos" }

const (
	DAOEventCreated     = "dao.created"
	DAOEventJoined      = "dao.joined"
	DAOEventContributed = "dao.contributed"
)

// DAOEvent is pushed to feed subscribers after a DAO changes.
type DAOEvent struct {
	Type   string    `json:"type"`
	DAO    DAO       `json:"dao"`
	Amount float64   `json:"amount,omitempty"`
	At     time.Time `json:"at"`
}
