package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaosekai/companion-api/internal/dto"
	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/middleware"
	"github.com/kaosekai/companion-api/internal/services"
)

// CharacterHandler serves character sheet CRUD for the acting user.
type CharacterHandler struct {
	characterService *services.CharacterService
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(characterService *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{characterService: characterService}
}

type characterRequest struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data" binding:"required"`
}

// ListCharacters returns the acting user's characters.
func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	characters, err := h.characterService.ListCharacters(userID)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToCharacterDTOs(characters))
}

// CreateCharacter stores a new character sheet.
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req characterRequest
	if !bindJSON(c, &req) {
		return
	}
	if !isJSONObject(req.Data) {
		apierrors.ValidationFailed(c, fieldError("data", "The data field must be an object."))
		return
	}

	character, err := h.characterService.CreateCharacter(userID, req.Name, req.Data)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.ToCharacterDTO(*character))
}

// GetCharacter fetches one of the acting user's characters.
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Character not found.")
		return
	}

	character, err := h.characterService.GetCharacter(id, userID)
	if err != nil {
		if errors.Is(err, services.ErrCharacterNotFound) {
			apierrors.NotFound(c, "Character not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToCharacterDTO(*character))
}

// UpdateCharacter replaces a character's sheet.
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Character not found.")
		return
	}

	var req characterRequest
	if !bindJSON(c, &req) {
		return
	}
	if !isJSONObject(req.Data) {
		apierrors.ValidationFailed(c, fieldError("data", "The data field must be an object."))
		return
	}

	character, err := h.characterService.UpdateCharacter(id, userID, req.Name, req.Data)
	if err != nil {
		if errors.Is(err, services.ErrCharacterNotFound) {
			apierrors.NotFound(c, "Character not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToCharacterDTO(*character))
}

// DeleteCharacter removes one of the acting user's characters.
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Character not found.")
		return
	}

	if err := h.characterService.DeleteCharacter(id, userID); err != nil {
		if errors.Is(err, services.ErrCharacterNotFound) {
			apierrors.NotFound(c, "Character not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Character deleted.",
	})
}

// isJSONObject reports whether the raw payload is a JSON object. The sheet
// contents beyond that are opaque.
func isJSONObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
