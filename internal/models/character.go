package models

import (
	"encoding/json"
	"time"
)

// Character is a player character sheet. Data is an opaque JSON document the
// client owns; it is persisted and returned verbatim, never interpreted.
type Character struct {
	ID        uint64          `gorm:"primarykey" json:"id"`
	UserID    uint64          `gorm:"not null;index" json:"user_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Data      json.RawMessage `gorm:"type:json" json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
