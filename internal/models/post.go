package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList stores a slice of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

type Post struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	PartyID   uint64     `gorm:"not null;index" json:"party_id"`
	UserID    uint64     `gorm:"not null;index" json:"user_id"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	Images    StringList `gorm:"type:json" json:"images"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Party Party `gorm:"foreignKey:PartyID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
