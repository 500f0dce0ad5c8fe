// Package edgeguard decides, before a page is served, whether the request
// may see it. It only looks at the session cookie.
package edgeguard

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentityKey is the gin context key holding the *service.Identity of a
// request the guard let through with a valid session.
const IdentityKey = "edgeguard.identity"

// LandingPath is the public landing route.
const LandingPath = "/"

// ProtectedPrefixes are the page areas that require a session. Each covers
// itself and every sub-path.
var ProtectedPrefixes = []string{
	"/dashboard",
	"/clients",
	"/workouts",
	"/workout_templates",
	"/calendar",
	"/progress",
}

type Action int

const (
	Pass Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "pass"
}

// Decision is the guard's verdict for one request.
type Decision struct {
	Action   Action
	Location string // set for Redirect
	Reason   string
}

// IsProtected reports whether path falls under a protected prefix.
func IsProtected(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Decide is the pure routing rule. identity is nil when the request carries
// no valid session.
func Decide(path string, identity *service.Identity) Decision {
	if identity == nil {
		if IsProtected(path) {
			return Decision{
				Action:   Redirect,
				Location: LandingPath + "?callbackUrl=" + url.QueryEscape(path),
				Reason:   "unauthenticated",
			}
		}
		return Decision{Action: Pass, Reason: "public"}
	}
	if path == LandingPath {
		return Decision{Action: Redirect, Location: identity.Role.HomePath(), Reason: "authenticated_landing"}
	}
	return Decision{Action: Pass, Reason: "authenticated"}
}

// TokenParser validates a session token.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*service.Identity, error)
}

// Guard applies Decide to incoming requests.
type Guard struct {
	parser     TokenParser
	cookieName string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func New(parser TokenParser, cookieName string, m *metrics.Metrics, logger *zap.Logger) *Guard {
	if m == nil {
		m = metrics.Nop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{parser: parser, cookieName: cookieName, metrics: m, logger: logger}
}

// identify never fails the request: any validation error, including an
// unreachable revocation store, counts as no session.
func (g *Guard) identify(r *http.Request) (*service.Identity, string) {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, "no_cookie"
	}
	identity, err := g.parser.ParseToken(r.Context(), cookie.Value)
	if err != nil {
		g.logger.Debug("Edge guard rejected session token", zap.String("path", r.URL.Path), zap.Error(err))
		return nil, "invalid_token"
	}
	return identity, ""
}

// Middleware is the gin form of the guard.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		identity, failure := g.identify(c.Request)
		d := Decide(path, identity)

		reason := d.Reason
		if failure != "" && d.Action == Redirect {
			reason = failure
		}
		g.metrics.GuardDecisionsTotal.WithLabelValues(d.Action.String(), reason).Inc()
		g.logger.Debug("Edge guard decision",
			zap.String("path", path),
			zap.String("action", d.Action.String()),
			zap.String("reason", reason),
			zap.String("location", d.Location))

		if d.Action == Redirect {
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}
		if identity != nil {
			c.Set(IdentityKey, identity)
		}
		c.Next()
	}
}
