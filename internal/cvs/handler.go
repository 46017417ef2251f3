package cvs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvision-backend/cv/model"
	"cvision-backend/internal/shared/server/middleware"
	"cvision-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches CV routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)
	rg.POST("/cvs", h.create)
	rg.GET("/cvs", h.list)
	rg.GET("/cvs/:id", h.get)
	rg.PUT("/cvs/:id", h.update)
	rg.DELETE("/cvs/:id", h.delete)
	rg.POST("/cvs/:id/primary", h.setPrimary)
	rg.GET("/cvs/:id/export", h.export)
}

func (h *Handler) templates(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Svc.Templates())
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cv, err := h.Svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create cv", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, cv)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	summaries, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list cvs", nil)
		return
	}
	if summaries == nil {
		summaries = []model.Summary{}
	}

	respond.JSON(c, http.StatusOK, summaries)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	cv, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch cv", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, cv)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cv, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update cv", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, cv)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete cv", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) setPrimary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.SetPrimary(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to set primary cv", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	data, fileName, err := h.Svc.Export(c.Request.Context(), userID, c.Param("id"), c.Query("template"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "cv not found", nil)
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusUnprocessableEntity, "empty_cv", "cv has no renderable content", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export cv", nil)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
