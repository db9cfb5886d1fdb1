package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
)

var ErrCharacterNotFound = errors.New("character not found")

const defaultCharacterName = "Unnamed"

// CharacterService provides character sheet CRUD. Ownership is absolute:
// every lookup is scoped to the acting user, so characters owned by anyone
// else come back not-found rather than forbidden.
type CharacterService struct {
	characterRepo repository.CharacterRepository
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(characterRepo repository.CharacterRepository) *CharacterService {
	return &CharacterService{characterRepo: characterRepo}
}

// ListCharacters returns the acting user's characters.
func (s *CharacterService) ListCharacters(userID uint64) ([]models.Character, error) {
	characters, err := s.characterRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// CreateCharacter stores a new character sheet. The data payload is opaque
// and persisted verbatim.
func (s *CharacterService) CreateCharacter(userID uint64, name string, data json.RawMessage) (*models.Character, error) {
	character := &models.Character{
		UserID: userID,
		Name:   resolveCharacterName(name, data, defaultCharacterName),
		Data:   data,
	}

	if err := s.characterRepo.Create(character); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	return character, nil
}

// GetCharacter fetches one of the acting user's characters.
func (s *CharacterService) GetCharacter(id, userID uint64) (*models.Character, error) {
	character, err := s.characterRepo.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to find character: %w", err)
	}
	return character, nil
}

// UpdateCharacter replaces a character's sheet and display name.
func (s *CharacterService) UpdateCharacter(id, userID uint64, name string, data json.RawMessage) (*models.Character, error) {
	character, err := s.characterRepo.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to find character: %w", err)
	}

	character.Name = resolveCharacterName(name, data, character.Name)
	character.Data = data

	if err := s.characterRepo.Update(character); err != nil {
		return nil, fmt.Errorf("failed to update character: %w", err)
	}

	return character, nil
}

// DeleteCharacter removes one of the acting user's characters.
func (s *CharacterService) DeleteCharacter(id, userID uint64) error {
	character, err := s.characterRepo.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharacterNotFound
		}
		return fmt.Errorf("failed to find character: %w", err)
	}

	if err := s.characterRepo.Delete(character.ID); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}

// resolveCharacterName picks the explicit name, then a "name" key inside the
// sheet, then the fallback. The sheet is otherwise never interpreted.
func resolveCharacterName(name string, data json.RawMessage, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}

	var sheet struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &sheet); err == nil {
		if trimmed := strings.TrimSpace(sheet.Name); trimmed != "" {
			return trimmed
		}
	}

	return fallback
}
