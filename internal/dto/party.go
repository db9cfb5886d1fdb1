package dto

import (
	"time"

	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/services"
)

// PartyDTO represents a party in API responses
type PartyDTO struct {
	ID           uint64           `json:"id"`
	OwnerID      uint64           `json:"owner_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Banner       *string          `json:"banner"`
	Code         string           `json:"code"`
	Type         models.PartyType `json:"type"`
	MembersCount int64            `json:"members_count"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PartyMemberDTO represents a newly created membership
type PartyMemberDTO struct {
	ID        uint64    `json:"id"`
	PartyID   uint64    `json:"party_id"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPartyDTO converts a party with member count to PartyDTO
func ToPartyDTO(p services.PartyWithCount) PartyDTO {
	return PartyDTO{
		ID:           p.Party.ID,
		OwnerID:      p.Party.OwnerID,
		Name:         p.Party.Name,
		Description:  p.Party.Description,
		Banner:       p.Party.Banner,
		Code:         p.Party.Code,
		Type:         p.Party.Type,
		MembersCount: p.MembersCount,
		CreatedAt:    p.Party.CreatedAt,
		UpdatedAt:    p.Party.UpdatedAt,
	}
}

// ToPartyDTOs converts a slice of parties with counts
func ToPartyDTOs(parties []services.PartyWithCount) []PartyDTO {
	dtos := make([]PartyDTO, len(parties))
	for i, party := range parties {
		dtos[i] = ToPartyDTO(party)
	}
	return dtos
}

// ToPartyMemberDTO converts a PartyMember model to PartyMemberDTO
func ToPartyMemberDTO(member models.PartyMember) PartyMemberDTO {
	return PartyMemberDTO{
		ID:        member.ID,
		PartyID:   member.PartyID,
		UserID:    member.UserID,
		CreatedAt: member.CreatedAt,
	}
}
