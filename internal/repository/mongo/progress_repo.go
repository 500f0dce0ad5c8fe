package mongo

import (
	"context"
	"errors"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress measurement repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

func (r *mongoProgressRepository) Create(ctx context.Context, p *domain.Progress) (primitive.ObjectID, error) {
	if p.TrainerID == primitive.NilObjectID || p.ClientID == primitive.NilObjectID || p.Date == "" {
		return primitive.NilObjectID, errors.New("progress requires trainerId, clientId and date")
	}
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, err
	}
	return p.ID, nil
}

func (r *mongoProgressRepository) GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.Progress, error) {
	var p domain.Progress
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "trainerId": trainerID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *mongoProgressRepository) ListByClient(ctx context.Context, trainerID, clientID primitive.ObjectID, page domain.Page) ([]domain.Progress, int, error) {
	page = page.Normalize()
	filter := bson.M{"trainerId": trainerID, "clientId": clientID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	items, err := r.find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (r *mongoProgressRepository) AllByClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Progress, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"trainerId": trainerID, "clientId": clientID}, findOptions)
}

func (r *mongoProgressRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Progress, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []domain.Progress{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, cursor.Err()
}

func (r *mongoProgressRepository) Update(ctx context.Context, p *domain.Progress) error {
	if p.ID == primitive.NilObjectID {
		return errors.New("progress ID is required for update")
	}
	p.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID, "trainerId": p.TrainerID}, p)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgressRepository) Delete(ctx context.Context, trainerID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes for the progress collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}, {Key: "date", Value: -1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
