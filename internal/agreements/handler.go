package agreements

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agreements-backend/internal/shared/server/respond"
	"agreements-backend/internal/shared/storage/object"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches agreement routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/agreements", h.get)
	rg.PUT("/agreements", h.review)
	rg.PUT("/agreements/save", h.save)
	rg.POST("/extractions", h.extract)
	rg.GET("/documents", h.document)
}

// get lists stored paths, or returns one agreement when s3_path is given.
func (h *Handler) get(c *gin.Context) {
	s3Path := c.Query("s3_path")
	if s3Path == "" {
		paths, err := h.Svc.ListPaths(c.Request.Context())
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list agreements", nil)
			return
		}
		if paths == nil {
			paths = []string{}
		}
		respond.JSON(c, http.StatusOK, paths)
		return
	}

	rec, err := h.Svc.GetByPath(c.Request.Context(), s3Path)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "agreement not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch agreement", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(rec))
}

// review persists a reviewed record and marks it human approved.
func (h *Handler) review(c *gin.Context) {
	h.put(c, h.Svc.Review)
}

// save persists a user-edited record.
func (h *Handler) save(c *gin.Context) {
	h.put(c, h.Svc.SaveSubmission)
}

func (h *Handler) put(c *gin.Context, persist func(ctx context.Context, s3Path string, raw RawRecord) (AgreementRecord, error)) {
	s3Path := c.Query("s3_path")
	if s3Path == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "s3_path is required", nil)
		return
	}

	var raw RawRecord
	if err := c.ShouldBindJSON(&raw); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := persist(c.Request.Context(), s3Path, raw)
	if err != nil {
		writePersistError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(rec))
}

// extract triggers a synchronous extraction run for a stored document.
func (h *Handler) extract(c *gin.Context) {
	s3Path := c.Query("s3_path")
	if s3Path == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "s3_path is required", nil)
		return
	}

	if c.Query("async") == "true" {
		requestID, err := h.Svc.EnqueueExtraction(c.Request.Context(), s3Path)
		if err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", err.Error(), nil)
			return
		}
		respond.JSON(c, http.StatusAccepted, gin.H{"s3_path": s3Path, "request_id": requestID})
		return
	}

	rec, err := h.Svc.ProcessDocument(c.Request.Context(), s3Path)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			writePersistError(c, err)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(rec))
}

// document returns the stored PDF, base64-encoded for gateway binary support.
func (h *Handler) document(c *gin.Context) {
	s3Path := c.Query("s3_path")
	if s3Path == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "s3_path is required", nil)
		return
	}

	data, err := h.Svc.FetchDocument(c.Request.Context(), s3Path)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}
	c.Data(http.StatusOK, "application/pdf", []byte(base64.StdEncoding.EncodeToString(data)))
}

func writePersistError(c *gin.Context, err error) {
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "agreement failed validation", valErr.Fields)
	case errors.Is(err, ErrUnknownDocumentTitle):
		respond.Error(c, http.StatusUnprocessableEntity, "unknown_document_title", err.Error(), nil)
	case errors.Is(err, ErrTitleDetectionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "title_detection_failed", err.Error(), nil)
	case errors.Is(err, ErrUnknownInputFormat):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save agreement", nil)
	}
}
