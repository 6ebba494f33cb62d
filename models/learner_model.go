package models

import (
	"time"

	"github.com/google/uuid"
)

type Learner struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName   string    `gorm:"size:255;not null" json:"display_name"`
	Email         string    `gorm:"size:255;not null;unique" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	WalletAddress *string   `gorm:"size:64" json:"wallet_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
