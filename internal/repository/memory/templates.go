package memory

import (
	"context"
	"errors"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutTemplateRepository struct {
	rows *table[domain.WorkoutTemplate]
}

func NewWorkoutTemplateRepository() repository.WorkoutTemplateRepository {
	return &workoutTemplateRepository{rows: newTable[domain.WorkoutTemplate]()}
}

func ownedTemplate(trainerID primitive.ObjectID) func(domain.WorkoutTemplate) bool {
	return func(t domain.WorkoutTemplate) bool { return t.TrainerID == trainerID }
}

// copyTemplate detaches the exercise slice from the caller's backing array.
func copyTemplate(t domain.WorkoutTemplate) domain.WorkoutTemplate {
	t.Exercises = append([]domain.TemplateExercise{}, t.Exercises...)
	return t
}

func (r *workoutTemplateRepository) Create(_ context.Context, tmpl *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if tmpl.TrainerID == primitive.NilObjectID || tmpl.Name == "" {
		return primitive.NilObjectID, errors.New("workout template requires trainerId and name")
	}
	tmpl.ID = primitive.NewObjectID()
	tmpl.CreatedAt = now()
	tmpl.UpdatedAt = tmpl.CreatedAt
	r.rows.put(tmpl.ID, copyTemplate(*tmpl))
	return tmpl.ID, nil
}

func (r *workoutTemplateRepository) GetByID(_ context.Context, trainerID, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	t, err := r.rows.get(id, ownedTemplate(trainerID))
	if err != nil {
		return nil, err
	}
	t = copyTemplate(t)
	return &t, nil
}

func (r *workoutTemplateRepository) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	out := r.rows.filter(ownedTemplate(trainerID), func(a, b domain.WorkoutTemplate) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	for i := range out {
		out[i] = copyTemplate(out[i])
	}
	return out, nil
}

func (r *workoutTemplateRepository) Update(_ context.Context, tmpl *domain.WorkoutTemplate) error {
	tmpl.UpdatedAt = now()
	return r.rows.replace(tmpl.ID, copyTemplate(*tmpl), ownedTemplate(tmpl.TrainerID))
}

func (r *workoutTemplateRepository) Delete(_ context.Context, trainerID, id primitive.ObjectID) error {
	return r.rows.remove(id, ownedTemplate(trainerID))
}
