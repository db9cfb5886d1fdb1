package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaosekai/companion-api/internal/dto"
	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/middleware"
	"github.com/kaosekai/companion-api/internal/services"
)

// PostHandler serves the party feed.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPosts returns a party's feed, oldest first.
func (h *PostHandler) ListPosts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	partyID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Party not found.")
		return
	}

	posts, err := h.postService.ListPosts(partyID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPartyNotFound):
			apierrors.NotFound(c, "Party not found.")
		case errors.Is(err, services.ErrPartyAccessDenied):
			apierrors.Forbidden(c, "You do not have access to this party.")
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPostDTOs(posts))
}

// CreatePost appends a post to a party's feed.
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	partyID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Party not found.")
		return
	}

	type CreatePostRequest struct {
		Text   string   `json:"text" binding:"required,min=1,max=5000"`
		Images []string `json:"images" binding:"omitempty,dive,url"`
	}

	var req CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.CreatePost(partyID, &user, req.Text, req.Images)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPartyNotFound):
			apierrors.NotFound(c, "Party not found.")
		case errors.Is(err, services.ErrPartyAccessDenied):
			apierrors.Forbidden(c, "You do not have access to this party.")
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostDTO(*post))
}

// DeletePost removes a post authored by the acting user.
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Post not found.")
		return
	}

	if err := h.postService.DeletePost(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			apierrors.NotFound(c, "Post not found.")
		case errors.Is(err, services.ErrNotPostAuthor):
			apierrors.Forbidden(c, "You cannot delete this post.")
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted.",
	})
}
