package repository

import (
	"github.com/kaosekai/companion-api/internal/models"
	"gorm.io/gorm"
)

// GormCharacterRepository is a GORM implementation of CharacterRepository
type GormCharacterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &GormCharacterRepository{db: db}
}

// Create creates a new character
func (r *GormCharacterRepository) Create(character *models.Character) error {
	return r.db.Create(character).Error
}

// ListByUser lists a user's characters, most recently updated first
func (r *GormCharacterRepository) ListByUser(userID uint64) ([]models.Character, error) {
	var characters []models.Character
	if err := r.db.
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}

// FindByIDForUser finds a character owned by the given user. Characters
// owned by anyone else surface as record-not-found.
func (r *GormCharacterRepository) FindByIDForUser(id, userID uint64) (*models.Character, error) {
	var character models.Character
	if err := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&character).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

// Update updates a character
func (r *GormCharacterRepository) Update(character *models.Character) error {
	return r.db.Save(character).Error
}

// Delete removes a character
func (r *GormCharacterRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Character{}, id).Error
}
