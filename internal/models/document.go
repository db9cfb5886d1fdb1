package models

import "time"

// Document is a catalog entry (rulebook PDF with a cover image). Rows with
// IsWip set are hidden from every non-admin surface.
type Document struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Version    string    `gorm:"type:varchar(100);not null" json:"version"`
	CoverImage string    `gorm:"type:varchar(2048);not null" json:"cover_image"`
	PdfFile    string    `gorm:"type:varchar(2048);not null" json:"pdf_file"`
	IsWip      bool      `gorm:"not null;default:false" json:"is_wip"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
