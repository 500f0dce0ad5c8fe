package edgeguard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func trainer() *service.Identity {
	return &service.Identity{UserID: primitive.NewObjectID(), Role: domain.RoleTrainer, TokenID: "jti"}
}

func TestDecide(t *testing.T) {
	client := &service.Identity{UserID: primitive.NewObjectID(), Role: domain.RoleClient}

	tests := []struct {
		name     string
		path     string
		identity *service.Identity
		action   Action
		location string
	}{
		{"protected without session", "/clients", nil, Redirect, "/?callbackUrl=%2Fclients"},
		{"protected sub-path without session", "/clients/abc/edit", nil, Redirect, "/?callbackUrl=%2Fclients%2Fabc%2Fedit"},
		{"every protected area", "/workout_templates", nil, Redirect, "/?callbackUrl=%2Fworkout_templates"},
		{"landing without session", "/", nil, Pass, ""},
		{"lookalike prefix is public", "/clientsfoo", nil, Pass, ""},
		{"public page without session", "/about", nil, Pass, ""},
		{"trainer on landing", "/", trainer(), Redirect, "/clients"},
		{"client on landing", "/", client, Redirect, "/dashboard"},
		{"trainer on protected", "/calendar", trainer(), Pass, ""},
		{"client on public", "/about", client, Pass, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.path, tt.identity)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.location, d.Location)
		})
	}
}

func TestIsProtected(t *testing.T) {
	for _, p := range ProtectedPrefixes {
		assert.True(t, IsProtected(p), p)
		assert.True(t, IsProtected(p+"/x"), p)
	}
	assert.False(t, IsProtected("/"))
	assert.False(t, IsProtected("/progressive"))
}

type stubParser struct {
	identity *service.Identity
	err      error
}

func (s stubParser) ParseToken(context.Context, string) (*service.Identity, error) {
	return s.identity, s.err
}

func newRouter(g *Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(g.Middleware())
	page := func(c *gin.Context) {
		_, hasIdentity := c.Get(IdentityKey)
		c.String(http.StatusOK, "page identity=%v", hasIdentity)
	}
	r.GET("/", page)
	r.GET("/clients", page)
	r.GET("/about", page)
	return r
}

func serve(r http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	cookie := &http.Cookie{Name: "trainerhub.session-token", Value: "tok"}

	t.Run("no cookie on protected redirects", func(t *testing.T) {
		m := metrics.Nop()
		r := newRouter(New(stubParser{}, cookie.Name, m, nil))
		w := serve(r, "/clients", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/?callbackUrl=%2Fclients", w.Header().Get("Location"))
		assert.NotContains(t, w.Body.String(), "page")
		var metric dto.Metric
		require.NoError(t, m.GuardDecisionsTotal.WithLabelValues("redirect", "no_cookie").Write(&metric))
		assert.Equal(t, 1.0, metric.GetCounter().GetValue())
	})

	t.Run("invalid token on protected redirects", func(t *testing.T) {
		r := newRouter(New(stubParser{err: service.ErrInvalidToken}, cookie.Name, nil, nil))
		w := serve(r, "/clients", cookie)
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("store outage is treated as no session", func(t *testing.T) {
		r := newRouter(New(stubParser{err: errors.New("redis: connection refused")}, cookie.Name, nil, nil))
		w := serve(r, "/clients", cookie)
		assert.Equal(t, http.StatusFound, w.Code)

		w = serve(r, "/", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid token on landing goes to role home", func(t *testing.T) {
		r := newRouter(New(stubParser{identity: trainer()}, cookie.Name, nil, nil))
		w := serve(r, "/", cookie)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/clients", w.Header().Get("Location"))
	})

	t.Run("valid token on protected passes with identity", func(t *testing.T) {
		r := newRouter(New(stubParser{identity: trainer()}, cookie.Name, nil, nil))
		w := serve(r, "/clients", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "page identity=true", w.Body.String())
	})

	t.Run("public page passes without session", func(t *testing.T) {
		r := newRouter(New(stubParser{}, cookie.Name, nil, nil))
		w := serve(r, "/about", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "page identity=false", w.Body.String())
	})
}
