package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trainerhub/app/internal/config"
	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository/memory"
	"trainerhub/app/internal/revocation"
	"trainerhub/app/internal/service"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cookieName = "trainerhub.session-token"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWithStore(t, revocation.NewMemoryStore())
}

func newTestRouterWithStore(t *testing.T, revoked revocation.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewRepositories()
	auth, err := service.NewAuthService(repos.Users, revoked, service.AuthConfig{
		Secret:     "router-test-secret",
		Expiration: time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)

	return NewRouter(Services{
		Auth:      auth,
		Clients:   service.NewClientService(repos.Clients, repos.Templates),
		Sessions:  service.NewSessionService(repos.Sessions, repos.Clients, repos.Templates, nil),
		Templates: service.NewWorkoutTemplateService(repos.Templates, repos.Clients),
		Exercises: service.NewExerciseService(repos.Exercises),
		Progress:  service.NewProgressService(repos.Progress, repos.Clients, nil, nil),
	}, RouterConfig{
		Cookie:         config.CookieConfig{Name: cookieName, SameSite: "lax"},
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         zap.NewNop(),
	})
}

// call performs one request. A non-empty token is sent as a bearer header.
func call(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func withCookie(t *testing.T, router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

// signUp registers an account and returns its session token.
func signUp(t *testing.T, router http.Handler, email string, role domain.Role) string {
	t.Helper()
	rec := call(t, router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Name: "Test " + string(role), Email: email, Password: "password123", Role: role,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie.Value
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, code, body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodPost, "/api/auth/register", RegisterRequest{
		Name: "Coach", Email: "coach@example.com", Password: "password123", Role: domain.RoleTrainer,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[UserResponse](t, rec)
	assert.Equal(t, "coach@example.com", user.Email)
	assert.Equal(t, domain.RoleTrainer, user.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)

	t.Run("duplicate email", func(t *testing.T) {
		rec := call(t, router, http.MethodPost, "/api/auth/register", RegisterRequest{
			Name: "Again", Email: "COACH@example.com", Password: "password123", Role: domain.RoleTrainer,
		}, "")
		assertError(t, rec, http.StatusConflict, "conflict")
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := call(t, router, http.MethodPost, "/api/auth/register", map[string]string{"email": "x"}, "")
		assertError(t, rec, http.StatusBadRequest, "validation_error")
	})

	t.Run("login", func(t *testing.T) {
		rec := call(t, router, http.MethodPost, "/api/auth/login", LoginRequest{Email: "coach@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, sessionCookie(rec))

		rec = call(t, router, http.MethodPost, "/api/auth/login", LoginRequest{Email: "coach@example.com", Password: "wrong-password"}, "")
		assertError(t, rec, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("jwt exchange", func(t *testing.T) {
		rec := call(t, router, http.MethodPost, "/api/auth/jwt", TokenRequest{Email: "coach@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		tok := decode[TokenResponse](t, rec)
		assert.NotEmpty(t, tok.AccessToken)
		assert.Nil(t, sessionCookie(rec), "the exchange does not set a cookie")

		me := call(t, router, http.MethodGet, "/api/auth/me", nil, tok.AccessToken)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, user.ID, decode[UserResponse](t, me).ID)
	})

	t.Run("me via cookie", func(t *testing.T) {
		rec := withCookie(t, router, http.MethodGet, "/api/auth/me", cookie.Value)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Coach", decode[UserResponse](t, rec).Name)

		assertError(t, withCookie(t, router, http.MethodGet, "/api/auth/me", ""), http.StatusUnauthorized, "unauthorized")
		assertError(t, withCookie(t, router, http.MethodGet, "/api/auth/me", "garbage"), http.StatusUnauthorized, "unauthorized")
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		rec := withCookie(t, router, http.MethodPost, "/api/auth/logout", cookie.Value)
		require.Equal(t, http.StatusNoContent, rec.Code)
		cleared := sessionCookie(rec)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)

		assertError(t, withCookie(t, router, http.MethodGet, "/api/auth/me", cookie.Value), http.StatusUnauthorized, "unauthorized")
		assertError(t, call(t, router, http.MethodGet, "/api/clients", nil, cookie.Value), http.StatusUnauthorized, "unauthorized")

		// The page guard rejects the revoked cookie too.
		page := withCookie(t, router, http.MethodGet, "/clients", cookie.Value)
		assert.Equal(t, http.StatusFound, page.Code)
		assert.Equal(t, "/?callbackUrl=%2Fclients", page.Header().Get("Location"))
		landing := withCookie(t, router, http.MethodGet, "/", cookie.Value)
		require.Equal(t, http.StatusOK, landing.Code)
		doc, err := goquery.NewDocumentFromReader(landing.Body)
		require.NoError(t, err)
		assert.Equal(t, "home", doc.Find("body").AttrOr("data-page", ""))

		// Repeating it, or calling it with no session at all, is harmless.
		assert.Equal(t, http.StatusNoContent, withCookie(t, router, http.MethodPost, "/api/auth/logout", cookie.Value).Code)
		assert.Equal(t, http.StatusNoContent, withCookie(t, router, http.MethodPost, "/api/auth/logout", "").Code)
	})
}

// unreachableStore stands in for a revocation store that cannot be reached.
type unreachableStore struct{}

func (unreachableStore) Revoke(context.Context, string, time.Time) error {
	return errors.New("redis: connection refused")
}

func (unreachableStore) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (unreachableStore) Close() error { return nil }

func TestSessionCheckUnavailable(t *testing.T) {
	router := newTestRouterWithStore(t, unreachableStore{})
	token := signUp(t, router, "coach@example.com", domain.RoleTrainer)

	// A valid session that cannot be checked is not reported as signed out.
	assertError(t, call(t, router, http.MethodGet, "/api/auth/me", nil, token), http.StatusServiceUnavailable, "unavailable")
	assertError(t, call(t, router, http.MethodGet, "/api/clients", nil, token), http.StatusServiceUnavailable, "unavailable")
	assertError(t, withCookie(t, router, http.MethodGet, "/api/clients", token), http.StatusServiceUnavailable, "unavailable")

	// Forged tokens are still rejected before the store is consulted.
	assertError(t, call(t, router, http.MethodGet, "/api/clients", nil, "garbage"), http.StatusUnauthorized, "unauthorized")
}

func TestClientRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "trainer@example.com", domain.RoleTrainer)

	rec := call(t, router, http.MethodPost, "/api/clients", map[string]any{
		"name":   "John Doe",
		"email":  "john@example.com",
		"phone":  "555-0100",
		"goal":   "Lose 5kg",
		"age":    34,
		"weight": 88.5,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.Client](t, rec)
	assert.Equal(t, "John Doe", created.Name)
	assert.Equal(t, domain.PlanPremiumMonthly, created.Plan)
	id := created.ID.Hex()

	list := decode[[]domain.Client](t, call(t, router, http.MethodGet, "/api/clients", nil, token))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = call(t, router, http.MethodPut, "/api/clients/"+id, map[string]any{"goal": "Run 10k", "age": nil}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.Client](t, rec)
	assert.Equal(t, "Run 10k", updated.Goal)
	assert.Nil(t, updated.Age)
	assert.Equal(t, "555-0100", updated.Phone, "absent fields are untouched")
	require.NotNil(t, updated.Weight)
	assert.Equal(t, 88.5, *updated.Weight)

	got := decode[domain.Client](t, call(t, router, http.MethodGet, "/api/clients/"+id, nil, token))
	assert.Equal(t, "Run 10k", got.Goal)

	assertError(t, call(t, router, http.MethodPut, "/api/clients/"+id, map[string]any{"plan": "Gold"}, token), http.StatusBadRequest, "validation_error")
	assertError(t, call(t, router, http.MethodPut, "/api/clients/"+id, map[string]any{"email": "not-an-email"}, token), http.StatusBadRequest, "validation_error")

	rec = call(t, router, http.MethodDelete, "/api/clients/"+id, nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assertError(t, call(t, router, http.MethodGet, "/api/clients/"+id, nil, token), http.StatusNotFound, "not_found")
	assertError(t, call(t, router, http.MethodDelete, "/api/clients/"+id, nil, token), http.StatusNotFound, "not_found")
	list = decode[[]domain.Client](t, call(t, router, http.MethodGet, "/api/clients", nil, token))
	assert.Empty(t, list)
}

func TestTrainerIsolationAndAccess(t *testing.T) {
	router := newTestRouter(t)
	owner := signUp(t, router, "owner@example.com", domain.RoleTrainer)
	other := signUp(t, router, "other@example.com", domain.RoleTrainer)
	clientUser := signUp(t, router, "member@example.com", domain.RoleClient)

	created := decode[domain.Client](t, call(t, router, http.MethodPost, "/api/clients", map[string]any{"name": "Private"}, owner))
	path := "/api/clients/" + created.ID.Hex()

	assertError(t, call(t, router, http.MethodGet, path, nil, other), http.StatusNotFound, "not_found")
	assertError(t, call(t, router, http.MethodPut, path, map[string]any{"name": "Mine"}, other), http.StatusNotFound, "not_found")
	assertError(t, call(t, router, http.MethodDelete, path, nil, other), http.StatusNotFound, "not_found")
	assert.Empty(t, decode[[]domain.Client](t, call(t, router, http.MethodGet, "/api/clients", nil, other)))

	assertError(t, call(t, router, http.MethodGet, "/api/clients/not-an-id", nil, owner), http.StatusNotFound, "not_found")
	assertError(t, call(t, router, http.MethodGet, "/api/clients", nil, ""), http.StatusUnauthorized, "unauthorized")
	assertError(t, call(t, router, http.MethodGet, "/api/clients", nil, clientUser), http.StatusForbidden, "forbidden")
	assert.Equal(t, http.StatusOK, call(t, router, http.MethodGet, "/api/auth/me", nil, clientUser).Code)

	assertError(t, call(t, router, http.MethodGet, "/api/nowhere", nil, owner), http.StatusNotFound, "not_found")
}

func TestSessionEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "trainer@example.com", domain.RoleTrainer)
	client := decode[domain.Client](t, call(t, router, http.MethodPost, "/api/clients", map[string]any{"name": "John Doe"}, token))

	rec := call(t, router, http.MethodPost, "/api/sessions/bulk-create", map[string]any{
		"clientId": client.ID.Hex(),
		"dates":    []string{"2099-03-02", "2099-03-04", "2099-04-01"},
		"time":     "07:00",
		"duration": 45,
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bulk := decode[service.BulkSessionResult](t, rec)
	assert.Equal(t, 3, bulk.SessionsCreated)
	assert.Equal(t, "3 sessions created", bulk.Message)

	march := decode[[]domain.Session](t, call(t, router, http.MethodGet, "/api/sessions?month=2099-03", nil, token))
	assert.Len(t, march, 2)
	day := decode[[]domain.Session](t, call(t, router, http.MethodGet, "/api/sessions?date=2099-04-01", nil, token))
	require.Len(t, day, 1)
	all := decode[[]domain.Session](t, call(t, router, http.MethodGet, "/api/sessions", nil, token))
	assert.Len(t, all, 3)

	withNext := decode[domain.Client](t, call(t, router, http.MethodGet, "/api/clients/"+client.ID.Hex(), nil, token))
	require.NotNil(t, withNext.NextSession)
	assert.Equal(t, time.Date(2099, 3, 2, 7, 0, 0, 0, time.UTC), withNext.NextSession.UTC())

	rec = call(t, router, http.MethodPut, "/api/sessions/"+day[0].ID.Hex(), map[string]any{"status": "completed", "note": "great"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.StatusCompleted, decode[domain.Session](t, rec).Status)

	assertError(t, call(t, router, http.MethodPut, "/api/sessions/"+day[0].ID.Hex(), map[string]any{"status": "done"}, token), http.StatusBadRequest, "validation_error")
	assertError(t, call(t, router, http.MethodPost, "/api/sessions/bulk-create", map[string]any{"dates": []string{}}, token), http.StatusBadRequest, "validation_error")
	assertError(t, call(t, router, http.MethodGet, "/api/sessions?month=March", nil, token), http.StatusBadRequest, "validation_error")

	assert.Equal(t, http.StatusNoContent, call(t, router, http.MethodDelete, "/api/sessions/"+day[0].ID.Hex(), nil, token).Code)
	assertError(t, call(t, router, http.MethodDelete, "/api/sessions/"+day[0].ID.Hex(), nil, token), http.StatusNotFound, "not_found")
}

func TestLibraryEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "trainer@example.com", domain.RoleTrainer)

	rec := call(t, router, http.MethodPost, "/api/exercises", map[string]any{"name": "Squat", "muscleGroup": "Legs"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assertError(t, call(t, router, http.MethodPost, "/api/exercises", map[string]any{"name": "squat"}, token), http.StatusConflict, "conflict")

	exercises := decode[map[string][]domain.Exercise](t, call(t, router, http.MethodGet, "/api/exercises", nil, token))
	require.Len(t, exercises["exercises"], 1)

	rec = call(t, router, http.MethodPost, "/api/workout-templates", map[string]any{
		"name":      "Leg day",
		"exercises": []map[string]any{{"name": "Squat", "sets": 5, "reps": "5"}},
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tmpl := decode[domain.WorkoutTemplate](t, rec)

	templates := decode[map[string][]domain.WorkoutTemplate](t, call(t, router, http.MethodGet, "/api/workout-templates", nil, token))
	require.Len(t, templates["templates"], 1)

	client := decode[domain.Client](t, call(t, router, http.MethodPost, "/api/clients", map[string]any{"name": "John Doe"}, token))
	clientPath := "/api/clients/" + client.ID.Hex() + "/assign-template"

	rec = call(t, router, http.MethodPut, clientPath, map[string]any{"templateId": tmpl.ID.Hex()}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, decode[domain.Client](t, rec).WorkoutTemplateID)

	assert.Equal(t, http.StatusNoContent, call(t, router, http.MethodDelete, "/api/workout-templates/"+tmpl.ID.Hex(), nil, token).Code)
	detached := decode[domain.Client](t, call(t, router, http.MethodGet, "/api/clients/"+client.ID.Hex(), nil, token))
	assert.Nil(t, detached.WorkoutTemplateID)

	assertError(t, call(t, router, http.MethodPut, clientPath, map[string]any{"templateId": tmpl.ID.Hex()}, token), http.StatusNotFound, "not_found")
}

func TestProgressEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signUp(t, router, "trainer@example.com", domain.RoleTrainer)
	client := decode[domain.Client](t, call(t, router, http.MethodPost, "/api/clients", map[string]any{"name": "John Doe"}, token))

	var ids []string
	for _, m := range []map[string]any{
		{"date": "2025-01-01", "weight": 90.0},
		{"date": "2025-02-01", "weight": 87.5, "waist": 95.0},
	} {
		m["clientId"] = client.ID.Hex()
		rec := call(t, router, http.MethodPost, "/api/progress", m, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[domain.Progress](t, rec).ID.Hex())
	}

	list := decode[ProgressListResponse](t, call(t, router, http.MethodGet, "/api/progress/"+client.ID.Hex()+"?limit=1", nil, token))
	require.Len(t, list.Measurements, 1)
	assert.Equal(t, "2025-02-01", list.Measurements[0].Date)
	assert.Equal(t, domain.Page{Page: 1, Limit: 1, Total: 2}, list.Pagination)

	assertError(t, call(t, router, http.MethodGet, "/api/progress/"+client.ID.Hex()+"?page=0", nil, token), http.StatusBadRequest, "validation_error")

	stats := decode[domain.ProgressStats](t, call(t, router, http.MethodGet, "/api/progress/"+client.ID.Hex()+"/stats", nil, token))
	assert.Equal(t, 2, stats.Count)
	require.Contains(t, stats.Metrics, "weight")
	assert.Equal(t, -2.5, stats.Metrics["weight"].Change)

	rec := call(t, router, http.MethodPut, "/api/progress/"+ids[0], map[string]any{"notes": "baseline"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "baseline", decode[domain.Progress](t, rec).Notes)

	rec = call(t, router, http.MethodPut, "/api/progress/"+ids[1], map[string]any{"weight": nil}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cleared := decode[domain.Progress](t, rec)
	assert.Nil(t, cleared.Weight)
	require.NotNil(t, cleared.Waist)
	assert.Equal(t, 95.0, *cleared.Waist)
	list = decode[ProgressListResponse](t, call(t, router, http.MethodGet, "/api/progress/"+client.ID.Hex()+"?limit=1", nil, token))
	require.Len(t, list.Measurements, 1)
	assert.Nil(t, list.Measurements[0].Weight, "the cleared weight is stored")

	assertError(t, call(t, router, http.MethodPost, "/api/progress/"+ids[0]+"/photo", map[string]any{"contentType": "image/jpeg"}, token), http.StatusServiceUnavailable, "unavailable")
	assertError(t, call(t, router, http.MethodGet, "/api/progress/"+ids[0]+"/photo", nil, token), http.StatusNotFound, "not_found")

	assert.Equal(t, http.StatusNoContent, call(t, router, http.MethodDelete, "/api/progress/"+ids[0], nil, token).Code)
	assertError(t, call(t, router, http.MethodPut, "/api/progress/"+ids[0], map[string]any{"notes": "x"}, token), http.StatusNotFound, "not_found")
}

func TestGuardedPages(t *testing.T) {
	router := newTestRouter(t)
	trainer := signUp(t, router, "trainer@example.com", domain.RoleTrainer)
	member := signUp(t, router, "member@example.com", domain.RoleClient)

	t.Run("landing is public", func(t *testing.T) {
		rec := withCookie(t, router, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "home", doc.Find("body").AttrOr("data-page", ""))
		_, hasRole := doc.Find("body").Attr("data-role")
		assert.False(t, hasRole)
	})

	t.Run("protected page redirects anonymous visitors", func(t *testing.T) {
		for _, path := range []string{"/clients", "/calendar", "/progress/abc", "/clients/abc/deeper"} {
			rec := withCookie(t, router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusFound, rec.Code, path)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/?callbackUrl=%2F"), rec.Header().Get("Location"))
		}
		rec := withCookie(t, router, http.MethodGet, "/clients", "forged")
		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("signed-in visitors skip the landing page", func(t *testing.T) {
		rec := withCookie(t, router, http.MethodGet, "/", trainer)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/clients", rec.Header().Get("Location"))

		rec = withCookie(t, router, http.MethodGet, "/", member)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("page shell", func(t *testing.T) {
		rec := withCookie(t, router, http.MethodGet, "/workout_templates", trainer)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "Workout Templates | TrainerHub", doc.Find("title").Text())
		body := doc.Find("body")
		assert.Equal(t, "workout_templates", body.AttrOr("data-page", ""))
		assert.Equal(t, "Trainer", body.AttrOr("data-role", ""))
		assert.Equal(t, 1, doc.Find("#root").Length())
	})

	t.Run("unknown page under a protected area", func(t *testing.T) {
		rec := withCookie(t, router, http.MethodGet, "/clients/abc/deeper", trainer)
		require.Equal(t, http.StatusNotFound, rec.Code)
		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, "not_found", doc.Find("body").AttrOr("data-page", ""))
	})
}

func TestInfrastructureRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", decode[map[string]string](t, rec)["message"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
