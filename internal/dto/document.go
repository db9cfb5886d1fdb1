package dto

import (
	"time"

	"github.com/kaosekai/companion-api/internal/models"
)

// DocumentDTO represents a catalog document in API responses
type DocumentDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	CoverImage string    `json:"cover_image"`
	PdfFile    string    `json:"pdf_file"`
	IsWip      bool      `json:"is_wip"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToDocumentDTO converts a Document model to DocumentDTO
func ToDocumentDTO(doc models.Document) DocumentDTO {
	return DocumentDTO{
		ID:         doc.ID,
		Name:       doc.Name,
		Version:    doc.Version,
		CoverImage: doc.CoverImage,
		PdfFile:    doc.PdfFile,
		IsWip:      doc.IsWip,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// ToDocumentDTOs converts a slice of documents
func ToDocumentDTOs(docs []models.Document) []DocumentDTO {
	dtos := make([]DocumentDTO, len(docs))
	for i, doc := range docs {
		dtos[i] = ToDocumentDTO(doc)
	}
	return dtos
}
