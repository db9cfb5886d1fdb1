package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
	"github.com/kaosekai/companion-api/internal/storage"
	"github.com/kaosekai/companion-api/internal/utils"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentService manages the rulebook catalog. Work-in-progress entries are
// invisible on every public surface regardless of caller.
type DocumentService struct {
	docRepo repository.DocumentRepository
	store   *storage.Store
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docRepo repository.DocumentRepository, store *storage.Store) *DocumentService {
	return &DocumentService{docRepo: docRepo, store: store}
}

// ListPublic returns finished documents only.
func (s *DocumentService) ListPublic(params utils.PaginationParams) ([]models.Document, int64, error) {
	return s.docRepo.List(false, params)
}

// ListAdmin returns every document, including work-in-progress.
func (s *DocumentService) ListAdmin(params utils.PaginationParams) ([]models.Document, int64, error) {
	return s.docRepo.List(true, params)
}

// GetPublic fetches a finished document; WIP rows surface as not-found.
func (s *DocumentService) GetPublic(id uint64) (*models.Document, error) {
	doc, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if doc.IsWip {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// GetAdmin fetches any document.
func (s *DocumentService) GetAdmin(id uint64) (*models.Document, error) {
	return s.get(id)
}

// CreateDocumentInput represents a new catalog entry with stored file paths.
type CreateDocumentInput struct {
	Name       string
	Version    string
	CoverImage string
	PdfFile    string
	IsWip      bool
}

// CreateDocument persists a new catalog entry.
func (s *DocumentService) CreateDocument(input CreateDocumentInput) (*models.Document, error) {
	doc := &models.Document{
		Name:       input.Name,
		Version:    input.Version,
		CoverImage: input.CoverImage,
		PdfFile:    input.PdfFile,
		IsWip:      input.IsWip,
	}

	if err := s.docRepo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

// UpdateDocumentInput represents a partial catalog update. Replacement file
// paths point at already-stored files.
type UpdateDocumentInput struct {
	Name       *string
	Version    *string
	IsWip      *bool
	CoverImage *string
	PdfFile    *string
}

// UpdateDocument applies a partial update. Superseded files are removed from
// disk best-effort after the metadata change; the row is the source of truth.
func (s *DocumentService) UpdateDocument(id uint64, input UpdateDocumentInput) (*models.Document, error) {
	doc, err := s.get(id)
	if err != nil {
		return nil, err
	}

	oldCover, oldPdf := doc.CoverImage, doc.PdfFile

	if input.Name != nil {
		doc.Name = *input.Name
	}
	if input.Version != nil {
		doc.Version = *input.Version
	}
	if input.IsWip != nil {
		doc.IsWip = *input.IsWip
	}
	if input.CoverImage != nil {
		doc.CoverImage = *input.CoverImage
	}
	if input.PdfFile != nil {
		doc.PdfFile = *input.PdfFile
	}

	if err := s.docRepo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	if input.CoverImage != nil && oldCover != "" {
		s.store.Remove(oldCover)
	}
	if input.PdfFile != nil && oldPdf != "" {
		s.store.Remove(oldPdf)
	}

	return doc, nil
}

// DeleteDocument removes a catalog entry and unlinks its files best-effort.
func (s *DocumentService) DeleteDocument(id uint64) error {
	doc, err := s.get(id)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.store.Remove(doc.CoverImage)
	s.store.Remove(doc.PdfFile)

	return nil
}

func (s *DocumentService) get(id uint64) (*models.Document, error) {
	doc, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return doc, nil
}
