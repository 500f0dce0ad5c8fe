package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"trainerhub/app/internal/domain"
)

type TemplateInput struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Exercises   []domain.TemplateExercise `json:"exercises"`
}

type ExerciseInput struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Description string `json:"description,omitempty"`
}

func templatePath(id string) string {
	return "/api/workout-templates/" + url.PathEscape(id)
}

func (c *Client) ListTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	var out struct {
		Templates []domain.WorkoutTemplate `json:"templates"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/workout-templates", kind: dataCall}, &out)
	return out.Templates, err
}

func (c *Client) GetTemplate(ctx context.Context, id string) (*domain.WorkoutTemplate, error) {
	var out domain.WorkoutTemplate
	if err := c.do(ctx, request{method: http.MethodGet, path: templatePath(id), kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTemplate(ctx context.Context, in TemplateInput) (*domain.WorkoutTemplate, error) {
	var out domain.WorkoutTemplate
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/workout-templates", body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id string, in TemplateInput) (*domain.WorkoutTemplate, error) {
	var out domain.WorkoutTemplate
	if err := c.do(ctx, request{method: http.MethodPut, path: templatePath(id), body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: templatePath(id), kind: dataCall}, nil)
}

func (c *Client) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	var out struct {
		Exercises []domain.Exercise `json:"exercises"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/exercises", kind: dataCall}, &out)
	return out.Exercises, err
}

func (c *Client) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	var out domain.Exercise
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/exercises", body: in, kind: dataCall}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
