package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaosekai/companion-api/internal/dto"
	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/services"
	"github.com/kaosekai/companion-api/internal/utils"
)

// UserHandler serves admin user management and user search.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns non-deleted users, newest first.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(params)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateUser creates a user with an explicit role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name     string `json:"name" binding:"required,min=1,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"omitempty,oneof=ADMIN GM PLAYER"`
	}

	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			apierrors.ValidationFailed(c, emailTakenErrors)
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update to a user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "User not found.")
		return
	}

	type UpdateUserRequest struct {
		Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Password *string `json:"password" binding:"omitempty,min=6"`
		Avatar   *string `json:"avatar" binding:"omitempty,url"`
		Role     *string `json:"role" binding:"omitempty,oneof=ADMIN GM PLAYER"`
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found.")
		case errors.Is(err, services.ErrEmailTaken):
			apierrors.ValidationFailed(c, emailTakenErrors)
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser soft-deletes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "User not found.")
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted.",
	})
}

// SearchUsers finds users by a name or email fragment.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("query")

	users, err := h.userService.SearchUsers(query)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	results := make([]dto.UserSearchDTO, len(users))
	for i, user := range users {
		results[i] = dto.ToUserSearchDTO(user)
	}

	c.JSON(http.StatusOK, results)
}
