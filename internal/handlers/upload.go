package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/storage"
)

// UploadHandler stores ad hoc image uploads, for avatars and post images.
type UploadHandler struct {
	store *storage.Store
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadImage stores a single image and returns its public URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		apierrors.ValidationFailed(c, fieldError("image", "The image field is required."))
		return
	}

	path, err := h.store.SaveImage(fh)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			apierrors.ValidationFailed(c, fieldError("image", "The image must be an image file."))
		case errors.Is(err, storage.ErrFileTooLarge):
			apierrors.ValidationFailed(c, fieldError("image", "The image may not be greater than 15 megabytes."))
		default:
			apierrors.InternalError(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":      path,
		"path":     path,
		"filename": fh.Filename,
		"mimeType": fh.Header.Get("Content-Type"),
		"size":     fh.Size,
	})
}
