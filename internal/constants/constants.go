package constants

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "auth_user"
	ContextKeyTokenHash = "token_hash"
)

// Validation limits
const (
	MinPasswordLength = 6
	MaxNameLength     = 255
	MaxPostTextLength = 5000
	PartyCodeLength   = 6
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxUserSearchResults caps the user search endpoint.
const MaxUserSearchResults = 20

// Upload limits
const (
	MaxImageUploadBytes   = 15 << 20
	MaxCatalogUploadBytes = 200 << 20
)
