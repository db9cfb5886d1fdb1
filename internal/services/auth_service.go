package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
	"github.com/kaosekai/companion-api/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("the provided credentials are incorrect")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")
)

// bcryptCost matches the hashing cost used by every deployed password hash.
const bcryptCost = 12

// AuthService handles registration, login and bearer-token authentication.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSecret []byte
	lifetime  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtSecret []byte, lifetime time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSecret: jwtSecret,
		lifetime:  lifetime,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user and issues a session token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RolePlayer,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Concurrent registrations race on the unique index; the store is
		// the final arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, accessToken, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a new session token. Unknown emails
// and wrong passwords are deliberately indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	accessToken, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, accessToken, nil
}

// Authenticate maps a presented bearer token to a user identity. The signed
// payload alone is not trusted: the referenced token row must still exist and
// be unexpired, so deleting the row revokes the token immediately.
func (s *AuthService) Authenticate(bearerToken string) (*models.User, string, error) {
	claims, err := utils.ParseSessionToken(s.jwtSecret, bearerToken)
	if err != nil {
		return nil, "", ErrUnauthenticated
	}

	token, err := s.tokenRepo.FindByHash(claims.TokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("failed to look up token: %w", err)
	}

	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return nil, "", ErrUnauthenticated
	}

	// Lost updates here are acceptable; last-used is informational.
	_ = s.tokenRepo.TouchLastUsed(token.ID)

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	return user, claims.TokenHash, nil
}

// Logout revokes the token used on this request, leaving the user's other
// sessions intact.
func (s *AuthService) Logout(tokenHash string) error {
	if err := s.tokenRepo.DeleteByHash(tokenHash); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	rawToken, err := utils.GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	tokenHash := utils.HashToken(rawToken)
	record := &models.Token{
		UserID:    user.ID,
		TokenHash: tokenHash,
		Name:      "api_token",
	}

	if err := s.tokenRepo.Create(record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return utils.SignSessionToken(s.jwtSecret, user.ID, tokenHash, s.lifetime)
}
