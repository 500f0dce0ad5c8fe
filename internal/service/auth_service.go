package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"
	"trainerhub/app/internal/revocation"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const (
	minPasswordLength = 8
	userCacheTTL      = time.Minute
)

// Identity is what a valid session token proves.
type Identity struct {
	UserID    primitive.ObjectID
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// AuthService owns accounts and session tokens. Both the API middleware and
// the page guard validate tokens through ParseToken.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (token string, user *domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// IssueToken logs in, or registers first when name is given and the email is unknown.
	IssueToken(ctx context.Context, email, password, name string, role domain.Role) (token string, user *domain.User, err error)
	ParseToken(ctx context.Context, token string) (*Identity, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	SignOut(ctx context.Context, id *Identity) error
	TokenTTL() time.Duration
}

// AuthConfig carries the token settings for NewAuthService.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo  repository.UserRepository
	revoked   revocation.Store
	cfg       AuthConfig
	users     *cache.Cache
	userLoads singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, revoked revocation.Store, cfg AuthConfig, logger *zap.Logger) (AuthService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "trainerhub"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo: userRepo,
		revoked:  revoked,
		cfg:      cfg,
		users:    cache.New(userCacheTTL, 5*time.Minute),
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.cfg.Expiration
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", invalid("email is not valid")
	}
	return email, nil
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, invalid("name is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return "", nil, err
	}
	if len(password) < minPasswordLength {
		return "", nil, invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if role != domain.RoleTrainer && role != domain.RoleClient {
		return "", nil, invalid("role must be Trainer or Client")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	// The unique email index decides races between concurrent registrations.
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, invalid("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) IssueToken(ctx context.Context, email, password, name string, role domain.Role) (string, *domain.User, error) {
	token, user, err := s.Login(ctx, email, password)
	if err == nil || strings.TrimSpace(name) == "" || !errors.Is(err, ErrAuthenticationFailed) {
		return token, user, err
	}
	// Only an unknown email falls through to registration; a wrong password stays a failure.
	if _, lookupErr := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email))); !errors.Is(lookupErr, repository.ErrNotFound) {
		return "", nil, err
	}
	if role == "" {
		role = domain.RoleTrainer
	}
	return s.Register(ctx, name, email, password, role)
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new signed token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseToken validates signature, expiry, required claims and revocation.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims := &jwtClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Role != domain.RoleTrainer && claims.Role != domain.RoleClient {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return &Identity{
		UserID:    userID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Me returns the account behind a session. Lookups are cached briefly and
// concurrent misses for the same user share one repository call, since the
// session probe polls this endpoint.
func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	key := userID.Hex()
	if cached, ok := s.users.Get(key); ok {
		u := cached.(domain.User)
		return &u, nil
	}

	v, err, _ := s.userLoads.Do(key, func() (interface{}, error) {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = ""
		s.users.SetDefault(key, *user)
		return *user, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	u := v.(domain.User)
	return &u, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *authService) SignOut(ctx context.Context, id *Identity) error {
	if id == nil || id.TokenID == "" {
		return ErrInvalidToken
	}
	if err := s.revoked.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Debug("Session revoked", zap.String("user_id", id.UserID.Hex()))
	return nil
}
