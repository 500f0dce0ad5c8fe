package api

import (
	"net/http"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ClientHandler serves a trainer's client records.
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, logger: logger}
}

// CreateClientRequest defines the expected JSON for creating a client.
type CreateClientRequest struct {
	Name              string      `json:"name" binding:"required"`
	Email             string      `json:"email" binding:"omitempty,email"`
	Phone             string      `json:"phone"`
	Address           string      `json:"address"`
	Plan              domain.Plan `json:"plan"`
	Goal              string      `json:"goal"`
	Age               *int        `json:"age"`
	Height            *float64    `json:"height"`
	Weight            *float64    `json:"weight"`
	TargetWeight      *float64    `json:"targetWeight"`
	Notes             string      `json:"notes"`
	NextSession       *time.Time  `json:"nextSession"`
	WorkoutTemplateID string      `json:"workoutTemplateId"`
}

type AssignTemplateRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

func (h *ClientHandler) List(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	clients, err := h.clientService.List(c.Request.Context(), trainer)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Create godoc
// @Summary Create a client for the authenticated trainer
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Router /api/clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := &domain.Client{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Plan:         req.Plan,
		Goal:         req.Goal,
		Age:          req.Age,
		Height:       req.Height,
		Weight:       req.Weight,
		TargetWeight: req.TargetWeight,
		Notes:        req.Notes,
	}
	if req.NextSession != nil {
		t := req.NextSession.UTC()
		client.NextSession = &t
	}
	if req.WorkoutTemplateID != "" {
		id, err := primitive.ObjectIDFromHex(req.WorkoutTemplateID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "validation_error", "Invalid workoutTemplateId")
			return
		}
		client.WorkoutTemplateID = &id
	}

	created, err := h.clientService.Create(c.Request.Context(), trainer, client)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ClientHandler) Get(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Client")
	if !ok {
		return
	}
	client, err := h.clientService.Get(c.Request.Context(), trainer, id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Update applies a partial update: only the fields present in the body change.
func (h *ClientHandler) Update(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Client")
	if !ok {
		return
	}
	var body fields
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	patch, err := body.clientPatch()
	if err != nil {
		bindError(c, err)
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), trainer, id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Client")
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), trainer, id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) AssignTemplate(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Client")
	if !ok {
		return
	}
	var req AssignTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Workout template not found")
		return
	}

	client, err := h.clientService.AssignTemplate(c.Request.Context(), trainer, id, templateID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) RemoveTemplate(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Client")
	if !ok {
		return
	}
	client, err := h.clientService.RemoveTemplate(c.Request.Context(), trainer, id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}
