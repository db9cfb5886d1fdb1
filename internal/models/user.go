package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleGM     UserRole = "GM"
	RolePlayer UserRole = "PLAYER"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Avatar       *string        `gorm:"type:varchar(2048)" json:"avatar"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'PLAYER'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Characters   []Character   `gorm:"foreignKey:UserID" json:"-"`
	OwnedParties []Party       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships  []PartyMember `gorm:"foreignKey:UserID" json:"-"`
	Posts        []Post        `gorm:"foreignKey:UserID" json:"-"`
	Tokens       []Token       `gorm:"foreignKey:UserID" json:"-"`
}
