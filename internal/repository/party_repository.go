package repository

import (
	"errors"

	"github.com/kaosekai/companion-api/internal/models"
	"gorm.io/gorm"
)

// GormPartyRepository is a GORM implementation of PartyRepository
type GormPartyRepository struct {
	db *gorm.DB
}

// NewPartyRepository creates a new PartyRepository
func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &GormPartyRepository{db: db}
}

// Create creates a new party
func (r *GormPartyRepository) Create(party *models.Party) error {
	return r.db.Create(party).Error
}

// FindByID finds a party by ID
func (r *GormPartyRepository) FindByID(id uint64) (*models.Party, error) {
	var party models.Party
	if err := r.db.First(&party, id).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// FindByIDForOwner finds a party owned by the given user. Parties owned by
// anyone else surface as record-not-found.
func (r *GormPartyRepository) FindByIDForOwner(id, ownerID uint64) (*models.Party, error) {
	var party models.Party
	if err := r.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// FindByCode finds a party by its join code
func (r *GormPartyRepository) FindByCode(code string) (*models.Party, error) {
	var party models.Party
	if err := r.db.Where("code = ?", code).First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// CodeExists reports whether a join code is already taken
func (r *GormPartyRepository) CodeExists(code string) (bool, error) {
	var party models.Party
	err := r.db.Select("id").Where("code = ?", code).First(&party).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListForUser lists parties the user owns or is a member of
func (r *GormPartyRepository) ListForUser(userID uint64) ([]models.Party, error) {
	var parties []models.Party
	memberSubQuery := r.db.Model(&models.PartyMember{}).
		Select("party_id").
		Where("user_id = ?", userID)

	if err := r.db.
		Where("owner_id = ? OR id IN (?)", userID, memberSubQuery).
		Order("updated_at DESC").
		Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// Update updates a party
func (r *GormPartyRepository) Update(party *models.Party) error {
	return r.db.Save(party).Error
}

// Delete removes a party and all related data in a transaction
func (r *GormPartyRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("party_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		if err := tx.Where("party_id = ?", id).Delete(&models.PartyMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Party{}, id).Error
	})
}

// CountMembers counts the members of a party
func (r *GormPartyRepository) CountMembers(partyID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.PartyMember{}).
		Where("party_id = ?", partyID).
		Count(&count).Error
	return count, err
}

// AddMember adds a member to a party
func (r *GormPartyRepository) AddMember(member *models.PartyMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific party member
func (r *GormPartyRepository) FindMember(partyID, userID uint64) (*models.PartyMember, error) {
	var member models.PartyMember
	if err := r.db.
		Where("party_id = ? AND user_id = ?", partyID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
