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

const workoutTemplateCollectionName = "workout_templates"

// mongoWorkoutTemplateRepository implements repository.WorkoutTemplateRepository
type mongoWorkoutTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutTemplateRepository creates a new WorkoutTemplate repository.
func NewMongoWorkoutTemplateRepository(db *mongo.Database) repository.WorkoutTemplateRepository {
	return &mongoWorkoutTemplateRepository{
		collection: db.Collection(workoutTemplateCollectionName),
	}
}

func (r *mongoWorkoutTemplateRepository) Create(ctx context.Context, tmpl *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if tmpl.TrainerID == primitive.NilObjectID || tmpl.Name == "" {
		return primitive.NilObjectID, errors.New("workout template requires trainerId and name")
	}
	tmpl.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, tmpl); err != nil {
		return primitive.NilObjectID, err
	}
	return tmpl.ID, nil
}

func (r *mongoWorkoutTemplateRepository) GetByID(ctx context.Context, trainerID, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	var tmpl domain.WorkoutTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "trainerId": trainerID}).Decode(&tmpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *mongoWorkoutTemplateRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	// Newest first
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	templates := []domain.WorkoutTemplate{}
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, cursor.Err()
}

func (r *mongoWorkoutTemplateRepository) Update(ctx context.Context, tmpl *domain.WorkoutTemplate) error {
	if tmpl.ID == primitive.NilObjectID {
		return errors.New("workout template ID is required for update")
	}
	filter := bson.M{"_id": tmpl.ID, "trainerId": tmpl.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"name":        tmpl.Name,
			"description": tmpl.Description,
			"exercises":   tmpl.Exercises,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutTemplateRepository) Delete(ctx context.Context, trainerID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutTemplateIndexes creates necessary indexes for the workout_templates collection.
func EnsureWorkoutTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
