package api

import (
	"errors"
	"net/http"
	"time"

	"trainerhub/app/internal/config"
	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	cookie      config.CookieConfig
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, cookie config.CookieConfig, m *metrics.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, metrics: m, logger: logger}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role" binding:"required,oneof=Trainer Client"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenRequest is the /jwt credential exchange. A name registers the
// account when the email is unknown.
type TokenRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role" binding:"omitempty,oneof=Trainer Client"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type TokenResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	AccessToken string      `json:"accessToken"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	switch h.cookie.SameSite {
	case "strict":
		c.SetSameSite(http.SameSiteStrictMode)
	case "none":
		c.SetSameSite(http.SameSiteNoneMode)
	default:
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cookie.Name, token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) authFailed(c *gin.Context, event string, err error) {
	h.metrics.AuthEventsTotal.WithLabelValues(event + "_failed").Inc()
	respondServiceError(c, h.logger, err)
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user (Trainer or Client)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created, session cookie set"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.authFailed(c, "register", err)
		return
	}

	h.metrics.AuthEventsTotal.WithLabelValues("register").Inc()
	h.setSessionCookie(c, token, int(h.authService.TokenTTL().Seconds()))
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse "Login successful, session cookie set"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.authFailed(c, "login", err)
		return
	}

	h.metrics.AuthEventsTotal.WithLabelValues("login").Inc()
	h.setSessionCookie(c, token, int(h.authService.TokenTTL().Seconds()))
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// IssueToken exchanges credentials for a bearer token. No cookie is set.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, user, err := h.authService.IssueToken(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		h.authFailed(c, "token", err)
		return
	}

	h.metrics.AuthEventsTotal.WithLabelValues("token").Inc()
	c.JSON(http.StatusOK, TokenResponse{
		ID:          user.ID.Hex(),
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		AccessToken: token,
	})
}

// Me returns the account behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// The account is gone; the token no longer names anyone.
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Account no longer exists")
			return
		}
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// Logout revokes the presented token, if any is valid, and clears the
// cookie. It always answers 204 so repeating it is harmless.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := tokenFromRequest(c, h.cookie.Name); token != "" {
		if identity, err := h.authService.ParseToken(c.Request.Context(), token); err == nil {
			if err := h.authService.SignOut(c.Request.Context(), identity); err != nil {
				h.logger.Error("Failed to revoke session", zap.String("request_id", c.GetString(ContextRequestID)), zap.Error(err))
				abortWithError(c, http.StatusInternalServerError, "internal_error", "Could not sign out")
				return
			}
			h.metrics.AuthEventsTotal.WithLabelValues("logout").Inc()
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}
