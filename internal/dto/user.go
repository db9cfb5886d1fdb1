package dto

import (
	"time"

	"github.com/kaosekai/companion-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Avatar    *string         `json:"avatar"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UserSearchDTO is the trimmed-down shape returned by user search
type UserSearchDTO struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

// UserSummaryDTO identifies a post author
type UserSummaryDTO struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// AuthResponse is the register/login response body
type AuthResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserSearchDTO converts a User model to UserSearchDTO
func ToUserSearchDTO(user models.User) UserSearchDTO {
	return UserSearchDTO{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:     user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
}

// ToAuthResponse builds the register/login response
func ToAuthResponse(user models.User, accessToken string) AuthResponse {
	return AuthResponse{
		User:        ToUserDTO(user),
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
}
