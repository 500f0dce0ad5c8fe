package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

func stampSession(s *domain.Session, now time.Time) {
	s.ID = primitive.NewObjectID()
	s.CreatedAt = now
	s.UpdatedAt = now
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.TrainerID == primitive.NilObjectID || session.Date == "" {
		return primitive.NilObjectID, errors.New("session requires trainerId and date")
	}
	stampSession(session, time.Now().UTC())

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return primitive.NilObjectID, err
	}
	return session.ID, nil
}

// CreateMany inserts all sessions in one round trip. IDs are assigned in place.
func (r *mongoSessionRepository) CreateMany(ctx context.Context, sessions []*domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(sessions))
	for i, s := range sessions {
		stampSession(s, now)
		docs[i] = s
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoSessionRepository) GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "trainerId": trainerID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// List returns sessions ordered by date and time.
func (r *mongoSessionRepository) List(ctx context.Context, trainerID primitive.ObjectID, f repository.SessionFilter) ([]domain.Session, error) {
	filter := bson.M{"trainerId": trainerID}
	switch {
	case f.Date != "":
		filter["date"] = f.Date
	case f.Month != "":
		// Dates are stored as YYYY-MM-DD so a prefix match selects the month.
		filter["date"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Month) + "-"}
	}
	if f.ClientID != nil {
		filter["clientId"] = *f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, cursor.Err()
}

func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}
	session.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID, "trainerId": session.TrainerID}, session)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, trainerID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}}},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
