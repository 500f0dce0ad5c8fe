package mongo

import (
	"context"
	"fmt"
	"time"

	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI
// and verifies it with a ping against the primary.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// The initial connect can succeed against an unresponsive server.
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = DisconnectDB(client)
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewRepositories wires every Mongo-backed repository to db.
func NewRepositories(db *mongo.Database) repository.Set {
	return repository.Set{
		Users:     NewMongoUserRepository(db),
		Clients:   NewMongoClientRepository(db),
		Sessions:  NewMongoSessionRepository(db),
		Templates: NewMongoWorkoutTemplateRepository(db),
		Exercises: NewMongoExerciseRepository(db),
		Progress:  NewMongoProgressRepository(db),
	}
}

// EnsureIndexes creates indexes for every collection. Failures are logged
// and do not stop the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{clientCollectionName, EnsureClientIndexes},
		{sessionCollectionName, EnsureSessionIndexes},
		{workoutTemplateCollectionName, EnsureWorkoutTemplateIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{progressCollectionName, EnsureProgressIndexes},
	}
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			logger.Warn("Failed to create indexes",
				zap.String("collection", step.collection),
				zap.Error(err))
		}
	}
	logger.Info("Index creation process completed")
}
