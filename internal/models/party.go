package models

import "time"

type PartyType string

const (
	PartyPublic  PartyType = "PUBLIC"
	PartyPrivate PartyType = "PRIVATE"
)

type Party struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Banner      *string   `gorm:"type:varchar(2048)" json:"banner"`
	Code        string    `gorm:"type:varchar(6);uniqueIndex;not null" json:"code"`
	Type        PartyType `gorm:"type:varchar(20);not null;default:'PUBLIC'" json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner   User          `gorm:"foreignKey:OwnerID" json:"-"`
	Members []PartyMember `gorm:"foreignKey:PartyID" json:"members,omitempty"`
	Posts   []Post        `gorm:"foreignKey:PartyID" json:"-"`
}
