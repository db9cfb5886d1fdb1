package models

import "time"

// PartyMember links a user into a party. The owner is implicitly privileged
// and never has a member row.
type PartyMember struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PartyID   uint64    `gorm:"not null;uniqueIndex:idx_party_members_party_user" json:"party_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_party_members_party_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Party Party `gorm:"foreignKey:PartyID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
