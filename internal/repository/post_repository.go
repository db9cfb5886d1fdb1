package repository

import (
	"github.com/kaosekai/companion-api/internal/models"
	"gorm.io/gorm"
)

// GormPostRepository is a GORM implementation of PostRepository
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// ListByParty lists a party's posts in chronological order with authors
func (r *GormPostRepository) ListByParty(partyID uint64) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.
		Preload("User").
		Where("party_id = ?", partyID).
		Order("created_at ASC, id ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(id uint64) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post
func (r *GormPostRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Post{}, id).Error
}
