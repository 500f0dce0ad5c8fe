package api

import (
	"net/http"
	"strconv"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProgressHandler serves client progress measurements. Under /api/progress
// the :id parameter names a client for reads and a measurement for writes.
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *zap.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, logger: logger}
}

type CreateProgressRequest struct {
	ClientID string   `json:"clientId" binding:"required"`
	Date     string   `json:"date"`
	Weight   *float64 `json:"weight"`
	Chest    *float64 `json:"chest"`
	Waist    *float64 `json:"waist"`
	Hips     *float64 `json:"hips"`
	Biceps   *float64 `json:"biceps"`
	Notes    string   `json:"notes"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ProgressListResponse is one page of measurements, newest first.
type ProgressListResponse struct {
	Measurements []domain.Progress `json:"measurements"`
	Pagination   domain.Page       `json:"pagination"`
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		abortWithError(c, http.StatusBadRequest, "validation_error", key+" must be a positive integer")
		return 0, false
	}
	return n, true
}

// ListForClient returns ?page (default 1) of ?limit (default 50) measurements.
func (h *ProgressHandler) ListForClient(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "Client")
	if !ok {
		return
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", domain.DefaultPageLimit)
	if !ok {
		return
	}

	items, pg, err := h.progressService.ListForClient(c.Request.Context(), trainer, clientID, domain.Page{Page: page, Limit: limit})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ProgressListResponse{Measurements: items, Pagination: pg})
}

func (h *ProgressHandler) Stats(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "Client")
	if !ok {
		return
	}
	stats, err := h.progressService.Stats(c.Request.Context(), trainer, clientID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ProgressHandler) Create(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var req CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Client not found")
		return
	}

	p, err := h.progressService.Create(c.Request.Context(), trainer, &domain.Progress{
		ClientID: clientID,
		Date:     req.Date,
		Weight:   req.Weight,
		Chest:    req.Chest,
		Waist:    req.Waist,
		Hips:     req.Hips,
		Biceps:   req.Biceps,
		Notes:    req.Notes,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProgressHandler) Update(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Progress measurement")
	if !ok {
		return
	}
	var body fields
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	patch, err := body.progressPatch()
	if err != nil {
		bindError(c, err)
		return
	}
	p, err := h.progressService.Update(c.Request.Context(), trainer, id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProgressHandler) Delete(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Progress measurement")
	if !ok {
		return
	}
	if err := h.progressService.Delete(c.Request.Context(), trainer, id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PhotoUploadURL issues a presigned PUT URL for the measurement's photo.
func (h *ProgressHandler) PhotoUploadURL(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Progress measurement")
	if !ok {
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	url, err := h.progressService.PhotoUploadURL(c.Request.Context(), trainer, id, req.ContentType)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

func (h *ProgressHandler) PhotoDownloadURL(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Progress measurement")
	if !ok {
		return
	}
	url, err := h.progressService.PhotoDownloadURL(c.Request.Context(), trainer, id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, url)
}
