package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trainerhub/app/internal/domain"
)

type ProgressInput struct {
	ClientID string   `json:"clientId"`
	Date     string   `json:"date,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	Chest    *float64 `json:"chest,omitempty"`
	Waist    *float64 `json:"waist,omitempty"`
	Hips     *float64 `json:"hips,omitempty"`
	Biceps   *float64 `json:"biceps,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// ProgressPage is one page of a client's measurements, newest first.
type ProgressPage struct {
	Measurements []domain.Progress `json:"measurements"`
	Pagination   domain.Page       `json:"pagination"`
}

type PhotoURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func progressPath(id string) string {
	return "/api/progress/" + url.PathEscape(id)
}

// ListProgress pages through a client's measurements. Zero page or limit
// falls back to the server defaults.
func (c *Client) ListProgress(ctx context.Context, clientID string, page, limit int) (*ProgressPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out ProgressPage
	if err := c.do(ctx, request{method: http.MethodGet, path: progressPath(clientID), query: query, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProgressStats(ctx context.Context, clientID string) (*domain.ProgressStats, error) {
	var out domain.ProgressStats
	if err := c.do(ctx, request{method: http.MethodGet, path: progressPath(clientID) + "/stats", kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProgress(ctx context.Context, in ProgressInput) (*domain.Progress, error) {
	var out domain.Progress
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/progress", body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProgress(ctx context.Context, id string, fields Fields) (*domain.Progress, error) {
	var out domain.Progress
	if err := c.do(ctx, request{method: http.MethodPut, path: progressPath(id), body: fields, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProgress(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: progressPath(id), kind: dataCall}, nil)
}

// PhotoUploadURL returns a presigned PUT URL for the measurement's photo.
func (c *Client) PhotoUploadURL(ctx context.Context, progressID, contentType string) (*PhotoURL, error) {
	var out PhotoURL
	body := map[string]string{"contentType": contentType}
	if err := c.do(ctx, request{method: http.MethodPost, path: progressPath(progressID) + "/photo", body: body, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PhotoDownloadURL(ctx context.Context, progressID string) (*PhotoURL, error) {
	var out PhotoURL
	if err := c.do(ctx, request{method: http.MethodGet, path: progressPath(progressID) + "/photo", kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
