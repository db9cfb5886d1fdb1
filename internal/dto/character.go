package dto

import (
	"encoding/json"
	"time"

	"github.com/kaosekai/companion-api/internal/models"
)

// CharacterDTO represents a character in API responses. Data is relayed
// verbatim from storage.
type CharacterDTO struct {
	ID        uint64          `json:"id"`
	UserID    uint64          `json:"user_id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCharacterDTO converts a Character model to CharacterDTO
func ToCharacterDTO(character models.Character) CharacterDTO {
	return CharacterDTO{
		ID:        character.ID,
		UserID:    character.UserID,
		Name:      character.Name,
		Data:      character.Data,
		CreatedAt: character.CreatedAt,
		UpdatedAt: character.UpdatedAt,
	}
}

// ToCharacterDTOs converts a slice of characters
func ToCharacterDTOs(characters []models.Character) []CharacterDTO {
	dtos := make([]CharacterDTO, len(characters))
	for i, character := range characters {
		dtos[i] = ToCharacterDTO(character)
	}
	return dtos
}
