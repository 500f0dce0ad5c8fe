package memory

import (
	"context"
	"errors"
	"strings"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionRepository struct {
	rows *table[domain.Session]
}

func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{rows: newTable[domain.Session]()}
}

func ownedSession(trainerID primitive.ObjectID) func(domain.Session) bool {
	return func(s domain.Session) bool { return s.TrainerID == trainerID }
}

func (r *sessionRepository) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.TrainerID == primitive.NilObjectID || session.Date == "" {
		return primitive.NilObjectID, errors.New("session requires trainerId and date")
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = now()
	session.UpdatedAt = session.CreatedAt
	r.rows.put(session.ID, *session)
	return session.ID, nil
}

func (r *sessionRepository) CreateMany(ctx context.Context, sessions []*domain.Session) error {
	for _, s := range sessions {
		if _, err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *sessionRepository) GetByID(_ context.Context, trainerID, id primitive.ObjectID) (*domain.Session, error) {
	s, err := r.rows.get(id, ownedSession(trainerID))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) List(_ context.Context, trainerID primitive.ObjectID, f repository.SessionFilter) ([]domain.Session, error) {
	match := func(s domain.Session) bool {
		if s.TrainerID != trainerID {
			return false
		}
		if f.Date != "" && s.Date != f.Date {
			return false
		}
		if f.Date == "" && f.Month != "" && !strings.HasPrefix(s.Date, f.Month+"-") {
			return false
		}
		if f.ClientID != nil && (s.ClientID == nil || *s.ClientID != *f.ClientID) {
			return false
		}
		return f.Status == "" || s.Status == f.Status
	}
	return r.rows.filter(match, func(a, b domain.Session) bool {
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Time < b.Time
	}), nil
}

func (r *sessionRepository) Update(_ context.Context, session *domain.Session) error {
	session.UpdatedAt = now()
	return r.rows.replace(session.ID, *session, ownedSession(session.TrainerID))
}

func (r *sessionRepository) Delete(_ context.Context, trainerID, id primitive.ObjectID) error {
	return r.rows.remove(id, ownedSession(trainerID))
}
