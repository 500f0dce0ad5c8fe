package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"trainerhub/app/internal/domain"
)

type SessionInput struct {
	ClientID          string               `json:"clientId,omitempty"`
	WorkoutTemplateID string               `json:"workoutTemplateId,omitempty"`
	Date              string               `json:"date"`
	Time              string               `json:"time,omitempty"`
	Duration          int                  `json:"duration,omitempty"`
	Status            domain.SessionStatus `json:"status,omitempty"`
	Note              string               `json:"note,omitempty"`
}

type BulkSessionInput struct {
	ClientID          string               `json:"clientId,omitempty"`
	WorkoutTemplateID string               `json:"workoutTemplateId,omitempty"`
	Dates             []string             `json:"dates"`
	Time              string               `json:"time,omitempty"`
	Duration          int                  `json:"duration,omitempty"`
	Status            domain.SessionStatus `json:"status,omitempty"`
	Note              string               `json:"note,omitempty"`
}

type BulkSessionResult struct {
	Message         string           `json:"message"`
	SessionsCreated int              `json:"sessionsCreated"`
	Sessions        []domain.Session `json:"sessions"`
}

// SessionQuery selects sessions by Date (YYYY-MM-DD) or Month (YYYY-MM).
// An empty query lists all sessions.
type SessionQuery struct {
	Date  string
	Month string
}

func sessionPath(id string) string {
	return "/api/sessions/" + url.PathEscape(id)
}

func (c *Client) ListSessions(ctx context.Context, q SessionQuery) ([]domain.Session, error) {
	query := url.Values{}
	if q.Date != "" {
		query.Set("date", q.Date)
	} else if q.Month != "" {
		query.Set("month", q.Month)
	}
	var out []domain.Session
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/sessions", query: query, kind: dataCall}, &out)
	return out, err
}

func (c *Client) CreateSession(ctx context.Context, in SessionInput) (*domain.Session, error) {
	var out domain.Session
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/sessions", body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BulkCreateSessions(ctx context.Context, in BulkSessionInput) (*BulkSessionResult, error) {
	var out BulkSessionResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/sessions/bulk-create", body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, fields Fields) (*domain.Session, error) {
	var out domain.Session
	if err := c.do(ctx, request{method: http.MethodPut, path: sessionPath(id), body: fields, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: sessionPath(id), kind: dataCall}, nil)
}
