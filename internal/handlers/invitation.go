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

// InvitationHandler lets party owners add members directly.
type InvitationHandler struct {
	partyService *services.PartyService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(partyService *services.PartyService) *InvitationHandler {
	return &InvitationHandler{partyService: partyService}
}

// InviteUser adds a target user to a party. Only the owner may invite.
func (h *InvitationHandler) InviteUser(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	partyID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Party not found.")
		return
	}

	type InviteRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req InviteRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.partyService.InviteUser(partyID, actorID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPartyNotFound):
			apierrors.NotFound(c, "Party not found.")
		case errors.Is(err, services.ErrNotPartyOwner):
			apierrors.Forbidden(c, "Only the party owner can invite users.")
		case errors.Is(err, services.ErrInvitedUserNotFound):
			apierrors.NotFound(c, "User not found.")
		case errors.Is(err, services.ErrAlreadyPartyOwner):
			apierrors.Conflict(c, "User is already the owner of this party.")
		case errors.Is(err, services.ErrAlreadyPartyMember):
			apierrors.Conflict(c, "User is already a member of this party.")
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User invited successfully",
		"member":  dto.ToPartyMemberDTO(*member),
	})
}
