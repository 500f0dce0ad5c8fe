// Package memory keeps every repository in process memory. It backs
// `database.driver: memory` for local development and the HTTP-level tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewRepositories returns an empty in-memory repository set.
func NewRepositories() repository.Set {
	return repository.Set{
		Users:     NewUserRepository(),
		Clients:   NewClientRepository(),
		Sessions:  NewSessionRepository(),
		Templates: NewWorkoutTemplateRepository(),
		Exercises: NewExerciseRepository(),
		Progress:  NewProgressRepository(),
	}
}

// table is a concurrency-safe map of records keyed by ObjectID.
// Values are stored and returned by value so callers never alias stored state.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[primitive.ObjectID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) put(id primitive.ObjectID, v T) {
	t.mu.Lock()
	t.rows[id] = v
	t.mu.Unlock()
}

func (t *table[T]) get(id primitive.ObjectID, match func(T) bool) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok || (match != nil && !match(v)) {
		var zero T
		return zero, repository.ErrNotFound
	}
	return v, nil
}

// replace overwrites an existing row that satisfies match.
func (t *table[T]) replace(id primitive.ObjectID, v T, match func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.rows[id]
	if !ok || !match(old) {
		return repository.ErrNotFound
	}
	t.rows[id] = v
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID, match func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.rows[id]
	if !ok || !match(old) {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) filter(match func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if match(v) {
			out = append(out, v)
		}
	}
	t.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func now() time.Time {
	return time.Now().UTC()
}
