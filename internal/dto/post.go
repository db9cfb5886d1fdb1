package dto

import (
	"time"

	"github.com/kaosekai/companion-api/internal/models"
)

// PostDTO represents a feed post with its author
type PostDTO struct {
	ID        uint64         `json:"id"`
	PartyID   uint64         `json:"party_id"`
	UserID    uint64         `json:"user_id"`
	Text      string         `json:"text"`
	Images    []string       `json:"images"`
	User      UserSummaryDTO `json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToPostDTO converts a Post model to PostDTO
func ToPostDTO(post models.Post) PostDTO {
	images := post.Images
	if images == nil {
		images = models.StringList{}
	}
	return PostDTO{
		ID:        post.ID,
		PartyID:   post.PartyID,
		UserID:    post.UserID,
		Text:      post.Text,
		Images:    images,
		User:      ToUserSummaryDTO(post.User),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// ToPostDTOs converts a slice of posts
func ToPostDTOs(posts []models.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i, post := range posts {
		dtos[i] = ToPostDTO(post)
	}
	return dtos
}
