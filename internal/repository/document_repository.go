package repository

import (
	"github.com/kaosekai/companion-api/internal/database"
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/utils"
	"gorm.io/gorm"
)

// GormDocumentRepository is a GORM implementation of DocumentRepository
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create creates a new document
func (r *GormDocumentRepository) Create(doc *models.Document) error {
	return r.db.Create(doc).Error
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(id uint64) (*models.Document, error) {
	var doc models.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List retrieves documents, newest first, paginated
func (r *GormDocumentRepository) List(includeWip bool, params utils.PaginationParams) ([]models.Document, int64, error) {
	var docs []models.Document

	query := r.db.Model(&models.Document{})
	if !includeWip {
		query = query.Where("is_wip = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Update updates a document
func (r *GormDocumentRepository) Update(doc *models.Document) error {
	return r.db.Save(doc).Error
}

// Delete removes a document
func (r *GormDocumentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Document{}, id).Error
}
