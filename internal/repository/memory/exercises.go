package memory

import (
	"context"
	"errors"
	"strings"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type exerciseRepository struct {
	rows *table[domain.Exercise]
}

func NewExerciseRepository() repository.ExerciseRepository {
	return &exerciseRepository{rows: newTable[domain.Exercise]()}
}

func (r *exerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise name and trainer ID are required")
	}
	r.rows.mu.Lock()
	defer r.rows.mu.Unlock()
	for _, e := range r.rows.rows {
		if e.TrainerID == exercise.TrainerID && strings.EqualFold(e.Name, exercise.Name) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = now()
	r.rows.rows[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *exerciseRepository) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	return r.rows.filter(func(e domain.Exercise) bool { return e.TrainerID == trainerID },
		func(a, b domain.Exercise) bool { return a.Name < b.Name }), nil
}
