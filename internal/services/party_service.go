package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
	"github.com/kaosekai/companion-api/internal/utils"
)

var (
	ErrPartyNotFound       = errors.New("party not found")
	ErrPartyCodeGeneration = errors.New("failed to generate party code")
	ErrAlreadyPartyMember  = errors.New("user is already a member of this party")
	ErrAlreadyPartyOwner   = errors.New("user is already the owner of this party")
	ErrNotPartyOwner       = errors.New("only the party owner can perform this action")
	ErrInvitedUserNotFound = errors.New("invited user not found")
)

// PartyWithCount pairs a party with its current member count.
type PartyWithCount struct {
	Party        models.Party
	MembersCount int64
}

// PartyService provides party CRUD, join-code lookup and membership.
type PartyService struct {
	partyRepo repository.PartyRepository
	userRepo  repository.UserRepository
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo repository.PartyRepository, userRepo repository.UserRepository) *PartyService {
	return &PartyService{partyRepo: partyRepo, userRepo: userRepo}
}

// CreatePartyInput represents parameters to create a new party.
type CreatePartyInput struct {
	OwnerID     uint64
	Name        string
	Description string
	Banner      *string
	Type        models.PartyType
}

// CreateParty creates a party with a freshly generated unique join code.
func (s *PartyService) CreateParty(input CreatePartyInput) (*models.Party, error) {
	partyType := input.Type
	if partyType == "" {
		partyType = models.PartyPublic
	}

	// The code space is 36^6; collisions are rare but the store's unique
	// index is the final arbiter, so keep drawing until a code sticks.
	for {
		code, err := s.uniquePartyCode()
		if err != nil {
			return nil, err
		}

		party := &models.Party{
			OwnerID:     input.OwnerID,
			Name:        input.Name,
			Description: input.Description,
			Banner:      input.Banner,
			Code:        code,
			Type:        partyType,
		}

		err = s.partyRepo.Create(party)
		if err == nil {
			return party, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create party: %w", err)
		}
	}
}

// ListParties returns parties the user owns or belongs to, with member counts.
func (s *PartyService) ListParties(userID uint64) ([]PartyWithCount, error) {
	parties, err := s.partyRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return s.withCounts(parties)
}

// GetParty fetches a party owned by the acting user. Parties owned by anyone
// else surface as not-found.
func (s *PartyService) GetParty(id, ownerID uint64) (*PartyWithCount, error) {
	party, err := s.partyRepo.FindByIDForOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to find party: %w", err)
	}
	return s.withCount(party)
}

// UpdatePartyInput represents a partial party update.
type UpdatePartyInput struct {
	Name        *string
	Description *string
	Banner      *string
	BannerSet   bool
	Type        *models.PartyType
}

// UpdateParty applies a partial update to a party owned by the acting user.
func (s *PartyService) UpdateParty(id, ownerID uint64, input UpdatePartyInput) (*PartyWithCount, error) {
	party, err := s.partyRepo.FindByIDForOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to find party: %w", err)
	}

	if input.Name != nil {
		party.Name = *input.Name
	}
	if input.Description != nil {
		party.Description = *input.Description
	}
	if input.BannerSet {
		party.Banner = input.Banner
	}
	if input.Type != nil {
		party.Type = *input.Type
	}

	if err := s.partyRepo.Update(party); err != nil {
		return nil, fmt.Errorf("failed to update party: %w", err)
	}

	return s.withCount(party)
}

// DeleteParty removes a party owned by the acting user, with its members and
// posts.
func (s *PartyService) DeleteParty(id, ownerID uint64) error {
	party, err := s.partyRepo.FindByIDForOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartyNotFound
		}
		return fmt.Errorf("failed to find party: %w", err)
	}

	if err := s.partyRepo.Delete(party.ID); err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}

	return nil
}

// FindByCode looks up a party by its join code, case-normalized.
func (s *PartyService) FindByCode(code string) (*PartyWithCount, error) {
	party, err := s.partyRepo.FindByCode(NormalizePartyCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to find party: %w", err)
	}
	return s.withCount(party)
}

// JoinParty adds the acting user to the party matching the code.
func (s *PartyService) JoinParty(userID uint64, code string) (*PartyWithCount, error) {
	party, err := s.partyRepo.FindByCode(NormalizePartyCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to find party: %w", err)
	}

	if party.OwnerID == userID {
		return nil, ErrAlreadyPartyOwner
	}

	if _, err := s.partyRepo.FindMember(party.ID, userID); err == nil {
		return nil, ErrAlreadyPartyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.PartyMember{
		PartyID: party.ID,
		UserID:  userID,
	}
	if err := s.partyRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPartyMember
		}
		return nil, fmt.Errorf("failed to join party: %w", err)
	}

	return s.withCount(party)
}

// InviteUser adds a target user directly to a party. Only the owner may
// invite; the target must exist, not be soft-deleted, and not already belong.
func (s *PartyService) InviteUser(partyID, actorID, targetID uint64) (*models.PartyMember, error) {
	party, err := s.partyRepo.FindByID(partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to find party: %w", err)
	}

	if party.OwnerID != actorID {
		return nil, ErrNotPartyOwner
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitedUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if target.ID == party.OwnerID {
		return nil, ErrAlreadyPartyOwner
	}

	if _, err := s.partyRepo.FindMember(party.ID, target.ID); err == nil {
		return nil, ErrAlreadyPartyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.PartyMember{
		PartyID: party.ID,
		UserID:  target.ID,
	}
	if err := s.partyRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPartyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// NormalizePartyCode upper-cases and trims a join code.
func NormalizePartyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *PartyService) uniquePartyCode() (string, error) {
	for {
		code, err := utils.GeneratePartyCode()
		if err != nil {
			return "", ErrPartyCodeGeneration
		}

		exists, err := s.partyRepo.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check party code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}

func (s *PartyService) withCount(party *models.Party) (*PartyWithCount, error) {
	count, err := s.partyRepo.CountMembers(party.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	return &PartyWithCount{Party: *party, MembersCount: count}, nil
}

func (s *PartyService) withCounts(parties []models.Party) ([]PartyWithCount, error) {
	result := make([]PartyWithCount, len(parties))
	for i, party := range parties {
		count, err := s.partyRepo.CountMembers(party.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count members: %w", err)
		}
		result[i] = PartyWithCount{Party: party, MembersCount: count}
	}
	return result, nil
}
