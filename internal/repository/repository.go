package repository

import (
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/utils"
)

// UserRepository defines the interface for user data access. Soft-deleted
// users are invisible to every method; GORM's default scope enforces the
// deleted_at IS NULL filter.
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by exact email match
	FindByEmail(email string) (*models.User, error)

	// List retrieves non-deleted users, newest first, paginated
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// Search finds users whose name or email contains the query,
	// case-insensitively, capped at limit results
	Search(query string, limit int) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// SoftDelete marks a user as deleted while retaining the row
	SoftDelete(id uint64) error
}

// TokenRepository defines the interface for session token data access
type TokenRepository interface {
	// Create stores a new token record
	Create(token *models.Token) error

	// FindByHash finds a token record by its SHA-256 digest
	FindByHash(hash string) (*models.Token, error)

	// TouchLastUsed updates the last-used timestamp of a token
	TouchLastUsed(id uint64) error

	// DeleteByHash removes the token record matching the digest
	DeleteByHash(hash string) error
}

// CharacterRepository defines the interface for character data access. The
// ForUser finders scope every lookup to the owning user, so rows owned by
// someone else are indistinguishable from missing ones.
type CharacterRepository interface {
	// Create creates a new character
	Create(character *models.Character) error

	// ListByUser lists a user's characters, most recently updated first
	ListByUser(userID uint64) ([]models.Character, error)

	// FindByIDForUser finds a character owned by the given user
	FindByIDForUser(id, userID uint64) (*models.Character, error)

	// Update updates a character
	Update(character *models.Character) error

	// Delete removes a character
	Delete(id uint64) error
}

// PartyRepository defines the interface for party and membership data access
type PartyRepository interface {
	// Create creates a new party
	Create(party *models.Party) error

	// FindByID finds a party by ID
	FindByID(id uint64) (*models.Party, error)

	// FindByIDForOwner finds a party owned by the given user
	FindByIDForOwner(id, ownerID uint64) (*models.Party, error)

	// FindByCode finds a party by its join code
	FindByCode(code string) (*models.Party, error)

	// CodeExists reports whether a join code is already taken
	CodeExists(code string) (bool, error)

	// ListForUser lists parties the user owns or is a member of
	ListForUser(userID uint64) ([]models.Party, error)

	// Update updates a party
	Update(party *models.Party) error

	// Delete removes a party and all related data
	Delete(id uint64) error

	// CountMembers counts the members of a party
	CountMembers(partyID uint64) (int64, error)

	// AddMember adds a member to a party
	AddMember(member *models.PartyMember) error

	// FindMember finds a specific party member
	FindMember(partyID, userID uint64) (*models.PartyMember, error)
}

// PostRepository defines the interface for party feed data access
type PostRepository interface {
	// Create creates a new post
	Create(post *models.Post) error

	// ListByParty lists a party's posts in chronological order with authors
	ListByParty(partyID uint64) ([]models.Post, error)

	// FindByID finds a post by ID
	FindByID(id uint64) (*models.Post, error)

	// Delete removes a post
	Delete(id uint64) error
}

// DocumentRepository defines the interface for catalog data access
type DocumentRepository interface {
	// Create creates a new document
	Create(doc *models.Document) error

	// FindByID finds a document by ID
	FindByID(id uint64) (*models.Document, error)

	// List retrieves documents, newest first, paginated. Work-in-progress
	// rows are included only when includeWip is set.
	List(includeWip bool, params utils.PaginationParams) ([]models.Document, int64, error)

	// Update updates a document
	Update(doc *models.Document) error

	// Delete removes a document
	Delete(id uint64) error
}
