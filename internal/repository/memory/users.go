package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	mu      sync.Mutex // guards the email index together with rows
	rows    *table[domain.User]
	byEmail map[string]primitive.ObjectID
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{
		rows:    newTable[domain.User](),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return primitive.NilObjectID, repository.ErrConflict
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	r.rows.put(user.ID, *user)
	r.byEmail[email] = user.ID
	return user.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, err := r.rows.get(id, nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
