package attachments

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvision-backend/internal/shared/server/middleware"
	"cvision-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches attachment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/attachments", h.upload)
	rg.GET("/attachments", h.list)
	rg.GET("/attachments/:id/text", h.text)
	rg.GET("/attachments/:id/download", h.download)
	rg.DELETE("/attachments/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		if _, ok := allowedMimeTypes[ct]; !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", nil)
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	att, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload attachment", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(att))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	atts, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list attachments", nil)
		return
	}

	resp := make([]AttachmentResponse, 0, len(atts))
	for _, att := range atts {
		resp = append(resp, toResponse(att))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) text(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	text, err := h.Svc.Text(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "attachment not found", nil)
		default:
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "failed to extract text", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"text": text})
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	att, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "attachment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch attachment", nil)
		}
		return
	}

	body, err := h.Svc.Open(c.Request.Context(), att)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open attachment", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+att.FileName+`"`)
	c.Header("Content-Type", att.MimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "attachment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete attachment", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
