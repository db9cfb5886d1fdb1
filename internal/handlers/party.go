package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kaosekai/companion-api/internal/constants"
	"github.com/kaosekai/companion-api/internal/dto"
	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/middleware"
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/services"
)

// PartyHandler serves party CRUD, code lookup and joining.
type PartyHandler struct {
	partyService *services.PartyService
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyService *services.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// ListParties returns parties the acting user owns or belongs to.
func (h *PartyHandler) ListParties(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	parties, err := h.partyService.ListParties(userID)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyDTOs(parties))
}

// CreateParty creates a party owned by the acting user.
func (h *PartyHandler) CreateParty(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreatePartyRequest struct {
		Name        string  `json:"name" binding:"required,min=1,max=255"`
		Description string  `json:"description" binding:"required,min=1"`
		Banner      *string `json:"banner" binding:"omitempty,url"`
		Type        string  `json:"type" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	}

	var req CreatePartyRequest
	if !bindJSON(c, &req) {
		return
	}

	party, err := h.partyService.CreateParty(services.CreatePartyInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Banner:      req.Banner,
		Type:        models.PartyType(req.Type),
	})
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartyDTO(services.PartyWithCount{Party: *party}))
}

// GetParty fetches a party owned by the acting user.
func (h *PartyHandler) GetParty(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Party not found.")
		return
	}

	party, err := h.partyService.GetParty(id, userID)
	if err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			apierrors.NotFound(c, "Party not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyDTO(*party))
}

// UpdateParty applies a partial update to a party owned by the acting user.
func (h *PartyHandler) UpdateParty(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Party not found.")
		return
	}

	type UpdatePartyRequest struct {
		Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
		Description *string `json:"description" binding:"omitempty,min=1"`
		Banner      *string `json:"banner" binding:"omitempty,url"`
		Type        *string `json:"type" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	}

	var req UpdatePartyRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.ValidationFailed(c, validationFieldErrors(err))
		return
	}

	// A second decode of the buffered body tells an absent banner apart
	// from an explicit null, which clears it.
	var raw map[string]interface{}
	_ = c.ShouldBindBodyWith(&raw, binding.JSON)
	_, bannerSet := raw["banner"]

	input := services.UpdatePartyInput{
		Name:        req.Name,
		Description: req.Description,
		Banner:      req.Banner,
		BannerSet:   bannerSet,
	}
	if req.Type != nil {
		partyType := models.PartyType(*req.Type)
		input.Type = &partyType
	}

	party, err := h.partyService.UpdateParty(id, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			apierrors.NotFound(c, "Party not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyDTO(*party))
}

// DeleteParty removes a party owned by the acting user.
func (h *PartyHandler) DeleteParty(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Party not found.")
		return
	}

	if err := h.partyService.DeleteParty(id, userID); err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			apierrors.NotFound(c, "Party not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Party deleted.",
	})
}

// FindByCode looks up a party by its join code.
func (h *PartyHandler) FindByCode(c *gin.Context) {
	code := services.NormalizePartyCode(c.Param("code"))
	if len(code) != constants.PartyCodeLength {
		apierrors.ValidationFailed(c, fieldError("code", "Invalid code format. Code must be 6 characters."))
		return
	}

	party, err := h.partyService.FindByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			apierrors.NotFound(c, "Party not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyDTO(*party))
}

// JoinParty adds the acting user to a party via its join code.
func (h *PartyHandler) JoinParty(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		Code string `json:"code" binding:"required"`
	}

	var req JoinRequest
	if !bindJSON(c, &req) {
		return
	}

	code := services.NormalizePartyCode(req.Code)
	if len(code) != constants.PartyCodeLength {
		apierrors.ValidationFailed(c, fieldError("code", "Invalid code format. Code must be 6 characters."))
		return
	}

	party, err := h.partyService.JoinParty(userID, code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPartyNotFound):
			apierrors.NotFound(c, "Party not found.")
		case errors.Is(err, services.ErrAlreadyPartyOwner):
			apierrors.Conflict(c, "You are already the owner of this party.")
		case errors.Is(err, services.ErrAlreadyPartyMember):
			apierrors.Conflict(c, "You are already a member of this party.")
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartyDTO(*party))
}
