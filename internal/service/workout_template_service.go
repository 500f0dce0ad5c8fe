package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplateService manages reusable workout templates.
type WorkoutTemplateService interface {
	List(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Get(ctx context.Context, trainerID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, tmpl *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	// Update replaces name, description and exercises of an existing template.
	Update(ctx context.Context, trainerID, templateID primitive.ObjectID, tmpl *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	// Delete removes the template and detaches it from every client using it.
	Delete(ctx context.Context, trainerID, templateID primitive.ObjectID) error
}

type workoutTemplateService struct {
	templateRepo repository.WorkoutTemplateRepository
	clientRepo   repository.ClientRepository
}

// NewWorkoutTemplateService creates a new instance of workoutTemplateService.
func NewWorkoutTemplateService(templateRepo repository.WorkoutTemplateRepository, clientRepo repository.ClientRepository) WorkoutTemplateService {
	return &workoutTemplateService{templateRepo: templateRepo, clientRepo: clientRepo}
}

func validateTemplate(t *domain.WorkoutTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("name is required")
	}
	for i, ex := range t.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return invalid(fmt.Sprintf("exercises[%d].name is required", i))
		}
		if ex.Sets < 0 || ex.RestSeconds < 0 {
			return invalid(fmt.Sprintf("exercises[%d] sets and restSeconds cannot be negative", i))
		}
	}
	if t.Exercises == nil {
		t.Exercises = []domain.TemplateExercise{}
	}
	return nil
}

func (s *workoutTemplateService) List(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	templates, err := s.templateRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list workout templates: %w", err)
	}
	if templates == nil {
		templates = []domain.WorkoutTemplate{}
	}
	return templates, nil
}

func (s *workoutTemplateService) Get(ctx context.Context, trainerID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, trainerID, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get workout template: %w", err)
	}
	return tmpl, nil
}

func (s *workoutTemplateService) Create(ctx context.Context, trainerID primitive.ObjectID, tmpl *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if tmpl == nil {
		return nil, invalid("template is required")
	}
	tmpl.ID = primitive.NilObjectID
	tmpl.TrainerID = trainerID
	if err := validateTemplate(tmpl); err != nil {
		return nil, err
	}
	if _, err := s.templateRepo.Create(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("create workout template: %w", err)
	}
	return tmpl, nil
}

func (s *workoutTemplateService) Update(ctx context.Context, trainerID, templateID primitive.ObjectID, in *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if in == nil {
		return nil, invalid("template is required")
	}
	tmpl, err := s.Get(ctx, trainerID, templateID)
	if err != nil {
		return nil, err
	}
	tmpl.Name = in.Name
	tmpl.Description = in.Description
	tmpl.Exercises = in.Exercises
	if err := validateTemplate(tmpl); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Update(ctx, tmpl); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("update workout template: %w", err)
	}
	return tmpl, nil
}

func (s *workoutTemplateService) Delete(ctx context.Context, trainerID, templateID primitive.ObjectID) error {
	if err := s.templateRepo.Delete(ctx, trainerID, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("delete workout template: %w", err)
	}
	if err := s.clientRepo.ClearWorkoutTemplate(ctx, trainerID, templateID); err != nil {
		return fmt.Errorf("detach workout template from clients: %w", err)
	}
	return nil
}
