package api

import (
	"net/http"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkoutTemplateHandler serves workout templates.
type WorkoutTemplateHandler struct {
	templateService service.WorkoutTemplateService
	logger          *zap.Logger
}

// NewWorkoutTemplateHandler creates a new WorkoutTemplateHandler.
func NewWorkoutTemplateHandler(templateService service.WorkoutTemplateService, logger *zap.Logger) *WorkoutTemplateHandler {
	return &WorkoutTemplateHandler{templateService: templateService, logger: logger}
}

// WorkoutTemplateRequest is used for both create and full update.
type WorkoutTemplateRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	Exercises   []domain.TemplateExercise `json:"exercises" binding:"dive"`
}

func (r WorkoutTemplateRequest) toDomain() *domain.WorkoutTemplate {
	return &domain.WorkoutTemplate{Name: r.Name, Description: r.Description, Exercises: r.Exercises}
}

// List responds with {"templates": [...]}.
func (h *WorkoutTemplateHandler) List(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	templates, err := h.templateService.List(c.Request.Context(), trainer)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *WorkoutTemplateHandler) Get(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Workout template")
	if !ok {
		return
	}
	tmpl, err := h.templateService.Get(c.Request.Context(), trainer, id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *WorkoutTemplateHandler) Create(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var req WorkoutTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tmpl, err := h.templateService.Create(c.Request.Context(), trainer, req.toDomain())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (h *WorkoutTemplateHandler) Update(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Workout template")
	if !ok {
		return
	}
	var req WorkoutTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tmpl, err := h.templateService.Update(c.Request.Context(), trainer, id, req.toDomain())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *WorkoutTemplateHandler) Delete(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Workout template")
	if !ok {
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), trainer, id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
