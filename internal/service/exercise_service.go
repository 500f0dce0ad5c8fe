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

// ExerciseService defines the interface for exercise library operations.
type ExerciseService interface {
	List(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, exercise *domain.Exercise) (*domain.Exercise, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

func (s *exerciseService) List(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}

func (s *exerciseService) Create(ctx context.Context, trainerID primitive.ObjectID, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise == nil || strings.TrimSpace(exercise.Name) == "" {
		return nil, invalid("name is required")
	}
	exercise.ID = primitive.NilObjectID
	exercise.TrainerID = trainerID
	exercise.Name = strings.TrimSpace(exercise.Name)

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrExerciseExists
		}
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return exercise, nil
}
