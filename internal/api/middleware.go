package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Constants for context keys
const (
	ContextIdentityKey = "identity"
	ContextRequestID   = "requestID"
)

const requestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, errCode, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: errCode, Message: message})
}

// tokenFromRequest prefers the Authorization header and falls back to the
// session cookie, so both browser and bearer clients are served.
func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware creates a Gin middleware that requires a valid session token.
func AuthMiddleware(authService service.AuthService, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		identity, err := authService.ParseToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "Session has expired")
			case errors.Is(err, service.ErrTokenRevoked):
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "Session has been signed out")
			case errors.Is(err, service.ErrInvalidToken):
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "Invalid session token")
			default:
				// Revocation store unreachable. The session may still be good, so
				// answer 503 and let the client retry instead of signing out.
				logger.Error("Token validation failed", zap.String("request_id", c.GetString(ContextRequestID)), zap.Error(err))
				abortWithError(c, http.StatusServiceUnavailable, "unavailable", "Session check is temporarily unavailable")
			}
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		for _, allowedRole := range allowedRoles {
			if identity.Role == allowedRole {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "forbidden", fmt.Sprintf("Access denied: role '%s' does not have permission", identity.Role))
	}
}

// Helper function to get the session identity from context (used by handlers)
func identityFromContext(c *gin.Context) (*service.Identity, error) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, errors.New("identity not found in context")
	}
	identity, ok := raw.(*service.Identity)
	if !ok || identity == nil {
		return nil, errors.New("invalid identity type in context")
	}
	return identity, nil
}

// RequestLogger assigns a request ID and writes one structured line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Info("Request rejected", fields...)
		default:
			logger.Debug("Request handled", fields...)
		}
	}
}

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// CORSMiddleware allows credentialed requests from the configured origins.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok && origin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
