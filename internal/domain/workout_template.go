package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplate is a reusable workout a trainer can attach to clients and sessions.
type WorkoutTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Exercises   []TemplateExercise `bson:"exercises" json:"exercises"` // Ordered
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TemplateExercise is one line of a workout template.
type TemplateExercise struct {
	ExerciseID  *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Sets        int                 `bson:"sets" json:"sets"`
	Reps        string              `bson:"reps,omitempty" json:"reps,omitempty"` // "8-12", "AMRAP"
	Weight      string              `bson:"weight,omitempty" json:"weight,omitempty"`
	RestSeconds int                 `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes       string              `bson:"notes,omitempty" json:"notes,omitempty"`
}
