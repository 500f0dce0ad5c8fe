package repository

import (
	"context"

	"trainerhub/app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// All trainer-owned lookups take the trainer ID so a record belonging to
// someone else is reported as ErrNotFound.

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ClientRepository stores a trainer's client records.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.Client, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, trainerID, id primitive.ObjectID) error
	// ClearWorkoutTemplate unsets the template on every client of the trainer that references it.
	ClearWorkoutTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error
}

// SessionFilter narrows session listings. Empty fields are ignored.
type SessionFilter struct {
	Date     string // exact YYYY-MM-DD
	Month    string // YYYY-MM
	ClientID *primitive.ObjectID
	Status   domain.SessionStatus
}

// SessionRepository stores training sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, sessions []*domain.Session) error
	GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.Session, error)
	List(ctx context.Context, trainerID primitive.ObjectID, filter SessionFilter) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, trainerID, id primitive.ObjectID) error
}

// WorkoutTemplateRepository stores workout templates.
type WorkoutTemplateRepository interface {
	Create(ctx context.Context, tmpl *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, tmpl *domain.WorkoutTemplate) error
	Delete(ctx context.Context, trainerID, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
}

// ProgressRepository stores progress measurements.
type ProgressRepository interface {
	Create(ctx context.Context, p *domain.Progress) (primitive.ObjectID, error)
	GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.Progress, error)
	// ListByClient returns one page of measurements, newest first, plus the total count.
	ListByClient(ctx context.Context, trainerID, clientID primitive.ObjectID, page domain.Page) ([]domain.Progress, int, error)
	// AllByClient returns every measurement oldest first (for stats).
	AllByClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Progress, error)
	Update(ctx context.Context, p *domain.Progress) error
	Delete(ctx context.Context, trainerID, id primitive.ObjectID) error
}

// Set bundles one implementation of every repository.
type Set struct {
	Users     UserRepository
	Clients   ClientRepository
	Sessions  SessionRepository
	Templates WorkoutTemplateRepository
	Exercises ExerciseRepository
	Progress  ProgressRepository
}
