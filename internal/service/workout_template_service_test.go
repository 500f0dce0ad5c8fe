package service

import (
	"context"
	"testing"

	"trainerhub/app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWorkoutTemplateServiceCRUD(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	svc := NewWorkoutTemplateService(repos.Templates, repos.Clients)
	trainer := primitive.NewObjectID()

	created, err := svc.Create(ctx, trainer, &domain.WorkoutTemplate{
		Name: " Push day ",
		Exercises: []domain.TemplateExercise{
			{Name: "Bench press", Sets: 4, Reps: "8-10"},
			{Name: "Dips", Sets: 3, Reps: "AMRAP"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Push day", created.Name)

	got, err := svc.Get(ctx, trainer, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 2)
	assert.Equal(t, "Bench press", got.Exercises[0].Name, "exercise order is kept")

	updated, err := svc.Update(ctx, trainer, created.ID, &domain.WorkoutTemplate{Name: "Push day v2"})
	require.NoError(t, err)
	assert.Equal(t, "Push day v2", updated.Name)
	assert.NotNil(t, updated.Exercises)
	assert.Empty(t, updated.Exercises)

	list, err := svc.List(ctx, trainer)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, primitive.NewObjectID(), created.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestWorkoutTemplateServiceValidation(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	svc := NewWorkoutTemplateService(repos.Templates, repos.Clients)
	trainer := primitive.NewObjectID()

	_, err := svc.Create(ctx, trainer, &domain.WorkoutTemplate{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, trainer, &domain.WorkoutTemplate{Name: "A", Exercises: []domain.TemplateExercise{{Name: ""}}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, trainer, &domain.WorkoutTemplate{Name: "A", Exercises: []domain.TemplateExercise{{Name: "Row", Sets: -1}}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWorkoutTemplateDeleteDetachesClients(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	templates := NewWorkoutTemplateService(repos.Templates, repos.Clients)
	clients := NewClientService(repos.Clients, repos.Templates)
	trainer := primitive.NewObjectID()

	tmpl, err := templates.Create(ctx, trainer, &domain.WorkoutTemplate{Name: "Legs"})
	require.NoError(t, err)
	c, err := clients.Create(ctx, trainer, &domain.Client{Name: "John Doe", WorkoutTemplateID: ptrID(tmpl.ID)})
	require.NoError(t, err)

	require.NoError(t, templates.Delete(ctx, trainer, tmpl.ID))

	got, err := clients.Get(ctx, trainer, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.WorkoutTemplateID)

	assert.ErrorIs(t, templates.Delete(ctx, trainer, tmpl.ID), ErrTemplateNotFound)
}

func TestExerciseService(t *testing.T) {
	ctx := context.Background()
	repos := newRepos()
	svc := NewExerciseService(repos.Exercises)
	trainer := primitive.NewObjectID()

	list, err := svc.List(ctx, trainer)
	require.NoError(t, err)
	assert.NotNil(t, list)

	ex, err := svc.Create(ctx, trainer, &domain.Exercise{Name: " Deadlift ", MuscleGroup: "Back"})
	require.NoError(t, err)
	assert.Equal(t, "Deadlift", ex.Name)

	_, err = svc.Create(ctx, trainer, &domain.Exercise{Name: "deadlift"})
	assert.ErrorIs(t, err, ErrExerciseExists)

	_, err = svc.Create(ctx, trainer, &domain.Exercise{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	list, err = svc.List(ctx, trainer)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
