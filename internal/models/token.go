package models

import "time"

// Token is a server-side session record. Only the SHA-256 digest of the raw
// token is stored; a bearer JWT is valid only while a matching row exists.
type Token struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	TokenHash  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Name       string     `gorm:"type:varchar(100);not null;default:'api_token'" json:"name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
