package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"trainerhub/app/internal/domain"
)

// ClientInput is the body for creating a client.
type ClientInput struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Plan         domain.Plan `json:"plan,omitempty"`
	Goal         string      `json:"goal"`
	Age          *int        `json:"age,omitempty"`
	Height       *float64    `json:"height,omitempty"`
	Weight       *float64    `json:"weight,omitempty"`
	TargetWeight *float64    `json:"targetWeight,omitempty"`
	Notes        string      `json:"notes"`
	NextSession  *time.Time  `json:"nextSession,omitempty"`
}

// Fields is a partial update body. Only keys present are changed and a nil
// value clears an optional field.
type Fields map[string]any

func clientPath(id string) string {
	return "/api/clients/" + url.PathEscape(id)
}

func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/clients", kind: dataCall}, &out)
	return out, err
}

func (c *Client) CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/clients", body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, request{method: http.MethodGet, path: clientPath(id), kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, fields Fields) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, request{method: http.MethodPut, path: clientPath(id), body: fields, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: clientPath(id), kind: dataCall}, nil)
}

func (c *Client) AssignTemplate(ctx context.Context, clientID, templateID string) (*domain.Client, error) {
	var out domain.Client
	body := map[string]string{"templateId": templateID}
	if err := c.do(ctx, request{method: http.MethodPut, path: clientPath(clientID) + "/assign-template", body: body, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveTemplate(ctx context.Context, clientID string) (*domain.Client, error) {
	var out domain.Client
	if err := c.do(ctx, request{method: http.MethodDelete, path: clientPath(clientID) + "/assign-template", kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
