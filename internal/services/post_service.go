package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/repository"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPartyAccessDenied = errors.New("no access to this party")
	ErrNotPostAuthor     = errors.New("only the author can delete this post")
)

// PostService provides the party feed. Reading and writing require the
// acting user to own the party or be a member; deletion is author-only, and
// party ownership grants no rights over members' posts.
type PostService struct {
	postRepo  repository.PostRepository
	partyRepo repository.PartyRepository
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository, partyRepo repository.PartyRepository) *PostService {
	return &PostService{postRepo: postRepo, partyRepo: partyRepo}
}

// ListPosts returns a party's feed in chronological order.
func (s *PostService) ListPosts(partyID, userID uint64) ([]models.Post, error) {
	if err := s.requireAccess(partyID, userID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByParty(partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CreatePost appends a post to a party's feed.
func (s *PostService) CreatePost(partyID uint64, author *models.User, text string, images []string) (*models.Post, error) {
	if err := s.requireAccess(partyID, author.ID); err != nil {
		return nil, err
	}

	post := &models.Post{
		PartyID: partyID,
		UserID:  author.ID,
		Text:    text,
		Images:  models.StringList(images),
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	post.User = *author
	return post, nil
}

// DeletePost removes a post; only its author may do so.
func (s *PostService) DeletePost(postID, userID uint64) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to find post: %w", err)
	}

	if post.UserID != userID {
		return ErrNotPostAuthor
	}

	if err := s.postRepo.Delete(post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func (s *PostService) requireAccess(partyID, userID uint64) error {
	party, err := s.partyRepo.FindByID(partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartyNotFound
		}
		return fmt.Errorf("failed to find party: %w", err)
	}

	if party.OwnerID == userID {
		return nil
	}

	if _, err := s.partyRepo.FindMember(party.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartyAccessDenied
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	return nil
}
