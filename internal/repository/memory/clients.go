package memory

import (
	"context"
	"errors"
	"strings"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type clientRepository struct {
	rows *table[domain.Client]
}

func NewClientRepository() repository.ClientRepository {
	return &clientRepository{rows: newTable[domain.Client]()}
}

func ownedClient(trainerID primitive.ObjectID) func(domain.Client) bool {
	return func(c domain.Client) bool { return c.TrainerID == trainerID }
}

func (r *clientRepository) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" || client.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client name and trainer ID are required")
	}
	client.ID = primitive.NewObjectID()
	client.CreatedAt = now()
	client.UpdatedAt = client.CreatedAt
	r.rows.put(client.ID, *client)
	return client.ID, nil
}

func (r *clientRepository) GetByID(_ context.Context, trainerID, id primitive.ObjectID) (*domain.Client, error) {
	c, err := r.rows.get(id, ownedClient(trainerID))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	return r.rows.filter(ownedClient(trainerID), func(a, b domain.Client) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}), nil
}

func (r *clientRepository) Update(_ context.Context, client *domain.Client) error {
	client.UpdatedAt = now()
	return r.rows.replace(client.ID, *client, ownedClient(client.TrainerID))
}

func (r *clientRepository) Delete(_ context.Context, trainerID, id primitive.ObjectID) error {
	return r.rows.remove(id, ownedClient(trainerID))
}

func (r *clientRepository) ClearWorkoutTemplate(_ context.Context, trainerID, templateID primitive.ObjectID) error {
	r.rows.mu.Lock()
	defer r.rows.mu.Unlock()
	for id, c := range r.rows.rows {
		if c.TrainerID == trainerID && c.WorkoutTemplateID != nil && *c.WorkoutTemplateID == templateID {
			c.WorkoutTemplateID = nil
			c.UpdatedAt = now()
			r.rows.rows[id] = c
		}
	}
	return nil
}
