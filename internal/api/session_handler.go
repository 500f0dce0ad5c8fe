package api

import (
	"net/http"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SessionHandler serves the training calendar.
type SessionHandler struct {
	sessionService service.SessionService
	logger         *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, logger: logger}
}

type CreateSessionRequest struct {
	ClientID          string               `json:"clientId"`
	WorkoutTemplateID string               `json:"workoutTemplateId"`
	Date              string               `json:"date" binding:"required"`
	Time              string               `json:"time"`
	Duration          int                  `json:"duration" binding:"omitempty,min=1"`
	Status            domain.SessionStatus `json:"status"`
	Note              string               `json:"note"`
}

type BulkCreateSessionsRequest struct {
	ClientID          string               `json:"clientId"`
	WorkoutTemplateID string               `json:"workoutTemplateId"`
	Dates             []string             `json:"dates" binding:"required,min=1"`
	Time              string               `json:"time"`
	Duration          int                  `json:"duration" binding:"omitempty,min=1"`
	Status            domain.SessionStatus `json:"status"`
	Note              string               `json:"note"`
}

// optionalID parses an optional hex ID from a request body.
func optionalID(c *gin.Context, field, value string) (*primitive.ObjectID, bool) {
	if value == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "validation_error", "Invalid "+field)
		return nil, false
	}
	return &id, true
}

// List returns sessions for ?date=YYYY-MM-DD, ?month=YYYY-MM, or all of them.
func (h *SessionHandler) List(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var (
		sessions []domain.Session
		err      error
	)
	switch date, month := c.Query("date"), c.Query("month"); {
	case date != "":
		sessions, err = h.sessionService.ListByDate(c.Request.Context(), trainer, date)
	case month != "":
		sessions, err = h.sessionService.ListByMonth(c.Request.Context(), trainer, month)
	default:
		sessions, err = h.sessionService.ListAll(c.Request.Context(), trainer)
	}
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) Create(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	clientID, ok := optionalID(c, "clientId", req.ClientID)
	if !ok {
		return
	}
	templateID, ok := optionalID(c, "workoutTemplateId", req.WorkoutTemplateID)
	if !ok {
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), trainer, &domain.Session{
		ClientID:          clientID,
		WorkoutTemplateID: templateID,
		Date:              req.Date,
		Time:              req.Time,
		Duration:          req.Duration,
		Status:            req.Status,
		Note:              req.Note,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// BulkCreate creates one session per date, sharing the other fields.
func (h *SessionHandler) BulkCreate(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	var req BulkCreateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	clientID, ok := optionalID(c, "clientId", req.ClientID)
	if !ok {
		return
	}
	templateID, ok := optionalID(c, "workoutTemplateId", req.WorkoutTemplateID)
	if !ok {
		return
	}

	result, err := h.sessionService.BulkCreate(c.Request.Context(), trainer, service.BulkSessionRequest{
		Dates:             req.Dates,
		Time:              req.Time,
		Duration:          req.Duration,
		Status:            req.Status,
		Note:              req.Note,
		ClientID:          clientID,
		WorkoutTemplateID: templateID,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SessionHandler) Update(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Session")
	if !ok {
		return
	}
	var body fields
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	patch, err := body.sessionPatch()
	if err != nil {
		bindError(c, err)
		return
	}

	session, err := h.sessionService.Update(c.Request.Context(), trainer, id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	trainer, ok := trainerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Session")
	if !ok {
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), trainer, id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
