package memory

import (
	"context"
	"errors"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type progressRepository struct {
	rows *table[domain.Progress]
}

func NewProgressRepository() repository.ProgressRepository {
	return &progressRepository{rows: newTable[domain.Progress]()}
}

func ownedProgress(trainerID primitive.ObjectID) func(domain.Progress) bool {
	return func(p domain.Progress) bool { return p.TrainerID == trainerID }
}

func (r *progressRepository) Create(_ context.Context, p *domain.Progress) (primitive.ObjectID, error) {
	if p.TrainerID == primitive.NilObjectID || p.ClientID == primitive.NilObjectID || p.Date == "" {
		return primitive.NilObjectID, errors.New("progress requires trainerId, clientId and date")
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	r.rows.put(p.ID, *p)
	return p.ID, nil
}

func (r *progressRepository) GetByID(_ context.Context, trainerID, id primitive.ObjectID) (*domain.Progress, error) {
	p, err := r.rows.get(id, ownedProgress(trainerID))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) byClient(trainerID, clientID primitive.ObjectID, newestFirst bool) []domain.Progress {
	return r.rows.filter(func(p domain.Progress) bool {
		return p.TrainerID == trainerID && p.ClientID == clientID
	}, func(a, b domain.Progress) bool {
		if a.Date == b.Date {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return (a.Date > b.Date) == newestFirst
	})
}

func (r *progressRepository) ListByClient(_ context.Context, trainerID, clientID primitive.ObjectID, page domain.Page) ([]domain.Progress, int, error) {
	page = page.Normalize()
	all := r.byClient(trainerID, clientID, true)
	start := page.Offset()
	if start >= len(all) {
		return []domain.Progress{}, len(all), nil
	}
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *progressRepository) AllByClient(_ context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Progress, error) {
	return r.byClient(trainerID, clientID, false), nil
}

func (r *progressRepository) Update(_ context.Context, p *domain.Progress) error {
	p.UpdatedAt = now()
	return r.rows.replace(p.ID, *p, ownedProgress(p.TrainerID))
}

func (r *progressRepository) Delete(_ context.Context, trainerID, id primitive.ObjectID) error {
	return r.rows.remove(id, ownedProgress(trainerID))
}
