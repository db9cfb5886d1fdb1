package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kaosekai/companion-api/internal/constants"
	"github.com/kaosekai/companion-api/internal/dto"
	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/services"
	"github.com/kaosekai/companion-api/internal/storage"
	"github.com/kaosekai/companion-api/internal/utils"
)

// DocumentHandler serves the rulebook catalog: public reads plus admin
// management with multipart uploads.
type DocumentHandler struct {
	documentService *services.DocumentService
	store           *storage.Store
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *services.DocumentService, store *storage.Store) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, store: store}
}

// ListPublicDocuments returns finished documents only.
func (h *DocumentHandler) ListPublicDocuments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	docs, total, err := h.documentService.ListPublic(params)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": dto.ToDocumentDTOs(docs),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetPublicDocument fetches a finished document. Work-in-progress entries
// surface as not-found.
func (h *DocumentHandler) GetPublicDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Document not found.")
		return
	}

	doc, err := h.documentService.GetPublic(id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			apierrors.NotFound(c, "Document not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

// ListAdminDocuments returns every document, including work-in-progress.
func (h *DocumentHandler) ListAdminDocuments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	docs, total, err := h.documentService.ListAdmin(params)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": dto.ToDocumentDTOs(docs),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetAdminDocument fetches any document by ID.
func (h *DocumentHandler) GetAdminDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Document not found.")
		return
	}

	doc, err := h.documentService.GetAdmin(id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			apierrors.NotFound(c, "Document not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

// CreateDocument stores a new catalog entry from a multipart form carrying
// name, version, an optional isWip flag, a cover image and a PDF.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	name := c.PostForm("name")
	version := c.PostForm("version")
	fhCover, coverErr := c.FormFile("coverImage")
	fhPdf, pdfErr := c.FormFile("pdfFile")

	fieldErrs := make(map[string][]string)
	if name == "" {
		fieldErrs["name"] = []string{"The name field is required."}
	}
	if version == "" {
		fieldErrs["version"] = []string{"The version field is required."}
	}
	if coverErr != nil {
		fieldErrs["coverImage"] = []string{"The coverImage field is required."}
	}
	if pdfErr != nil {
		fieldErrs["pdfFile"] = []string{"The pdfFile field is required."}
	}
	if len(fieldErrs) > 0 {
		apierrors.ValidationFailed(c, fieldErrs)
		return
	}

	if fhCover.Size+fhPdf.Size > constants.MaxCatalogUploadBytes {
		apierrors.ValidationFailed(c, fieldError("pdfFile", "The combined upload may not be greater than 200 megabytes."))
		return
	}

	isWip, _ := strconv.ParseBool(c.DefaultPostForm("isWip", "false"))

	coverPath, ok := h.saveCover(c, fhCover)
	if !ok {
		return
	}
	pdfPath, ok := h.savePDF(c, fhPdf)
	if !ok {
		h.store.Remove(coverPath)
		return
	}

	doc, err := h.documentService.CreateDocument(services.CreateDocumentInput{
		Name:       name,
		Version:    version,
		CoverImage: coverPath,
		PdfFile:    pdfPath,
		IsWip:      isWip,
	})
	if err != nil {
		h.store.Remove(coverPath)
		h.store.Remove(pdfPath)
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentDTO(*doc))
}

// UpdateDocument applies a partial update. Form fields and files are all
// optional; a replacement file supersedes the stored one.
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Document not found.")
		return
	}

	var input services.UpdateDocumentInput
	if name, exists := c.GetPostForm("name"); exists {
		if name == "" {
			apierrors.ValidationFailed(c, fieldError("name", "The name field is required."))
			return
		}
		input.Name = &name
	}
	if version, exists := c.GetPostForm("version"); exists {
		if version == "" {
			apierrors.ValidationFailed(c, fieldError("version", "The version field is required."))
			return
		}
		input.Version = &version
	}
	if raw, exists := c.GetPostForm("isWip"); exists {
		isWip, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.ValidationFailed(c, fieldError("isWip", "The isWip field must be true or false."))
			return
		}
		input.IsWip = &isWip
	}

	fhCover, coverErr := c.FormFile("coverImage")
	fhPdf, pdfErr := c.FormFile("pdfFile")

	var combined int64
	if coverErr == nil {
		combined += fhCover.Size
	}
	if pdfErr == nil {
		combined += fhPdf.Size
	}
	if combined > constants.MaxCatalogUploadBytes {
		apierrors.ValidationFailed(c, fieldError("pdfFile", "The combined upload may not be greater than 200 megabytes."))
		return
	}

	if coverErr == nil {
		coverPath, ok := h.saveCover(c, fhCover)
		if !ok {
			return
		}
		input.CoverImage = &coverPath
	}
	if pdfErr == nil {
		pdfPath, ok := h.savePDF(c, fhPdf)
		if !ok {
			if input.CoverImage != nil {
				h.store.Remove(*input.CoverImage)
			}
			return
		}
		input.PdfFile = &pdfPath
	}

	doc, err := h.documentService.UpdateDocument(id, input)
	if err != nil {
		if input.CoverImage != nil {
			h.store.Remove(*input.CoverImage)
		}
		if input.PdfFile != nil {
			h.store.Remove(*input.PdfFile)
		}
		if errors.Is(err, services.ErrDocumentNotFound) {
			apierrors.NotFound(c, "Document not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

// DeleteDocument removes a catalog entry and its stored files.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.NotFound(c, "Document not found.")
		return
	}

	if err := h.documentService.DeleteDocument(id); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			apierrors.NotFound(c, "Document not found.")
			return
		}
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Document deleted.",
	})
}

func (h *DocumentHandler) saveCover(c *gin.Context, fh *multipart.FileHeader) (string, bool) {
	path, err := h.store.SaveCover(fh)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			apierrors.ValidationFailed(c, fieldError("coverImage", "The coverImage must be an image."))
		case errors.Is(err, storage.ErrFileTooLarge):
			apierrors.ValidationFailed(c, fieldError("coverImage", "The coverImage exceeds the size limit."))
		default:
			apierrors.InternalError(c, err.Error())
		}
		return "", false
	}
	return path, true
}

func (h *DocumentHandler) savePDF(c *gin.Context, fh *multipart.FileHeader) (string, bool) {
	path, err := h.store.SavePDF(fh)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotPDF):
			apierrors.ValidationFailed(c, fieldError("pdfFile", "The pdfFile must be a PDF."))
		case errors.Is(err, storage.ErrFileTooLarge):
			apierrors.ValidationFailed(c, fieldError("pdfFile", "The pdfFile exceeds the size limit."))
		default:
			apierrors.InternalError(c, err.Error())
		}
		return "", false
	}
	return path, true
}
