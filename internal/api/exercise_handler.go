package api

import (
	"net/http"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	MuscleGroup string `json:"muscleGroup"` // e.g., "Chest", "Legs"
	Description string `json:"description"`
}

// CreateExercise godoc
// @Summary Add an exercise to the trainer's library
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} domain.Exercise
// @Failure 409 {object} ErrorResponse "Name already used"
// @Router /api/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), trainer, &domain.Exercise{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetTrainerExercises responds with {"exercises": [...]}.
func (h *ExerciseHandler) GetTrainerExercises(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.List(c.Request.Context(), trainer)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}
