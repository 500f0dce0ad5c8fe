package api

import (
	"errors"
	"net/http"

	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// respondServiceError maps service sentinels to HTTP statuses. Anything
// unrecognised is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrExerciseExists):
		abortWithError(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		abortWithError(c, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrProgressNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNoPhoto):
		abortWithError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrPhotoUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		logger.Error("Unexpected service error",
			zap.String("request_id", c.GetString(ContextRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// trainerID returns the authenticated trainer, or aborts with 401.
func trainerID(c *gin.Context) (primitive.ObjectID, bool) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return primitive.NilObjectID, false
	}
	return identity.UserID, true
}

// pathID parses the :id route parameter. A malformed ID cannot name an
// existing record, so it is answered with 404 like any unknown ID.
func pathID(c *gin.Context, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "not_found", what+" not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "validation_error", "Invalid request body: "+err.Error())
}
