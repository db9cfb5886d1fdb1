package repository

import (
	"time"

	"github.com/kaosekai/companion-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Create stores a new token record
func (r *GormTokenRepository) Create(token *models.Token) error {
	return r.db.Create(token).Error
}

// FindByHash finds a token record by its SHA-256 digest
func (r *GormTokenRepository) FindByHash(hash string) (*models.Token, error) {
	var token models.Token
	if err := r.db.Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// TouchLastUsed updates the last-used timestamp. A lost update here is
// harmless, so this runs outside any transaction.
func (r *GormTokenRepository) TouchLastUsed(id uint64) error {
	now := time.Now()
	return r.db.Model(&models.Token{}).
		Where("id = ?", id).
		Update("last_used_at", now).Error
}

// DeleteByHash removes the token record matching the digest
func (r *GormTokenRepository) DeleteByHash(hash string) error {
	return r.db.Where("token_hash = ?", hash).Delete(&models.Token{}).Error
}
