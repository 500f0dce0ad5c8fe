package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for training session lifecycle
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
	StatusNoShow    SessionStatus = "no_show"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	TimeLayout  = "15:04"

	DefaultSessionDuration = 60 // minutes
)

// Session is a scheduled training session. Date and Time are kept as the
// trainer entered them (local wall clock), which is what the calendar groups by.
type Session struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID         primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	ClientID          *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId"`
	WorkoutTemplateID *primitive.ObjectID `bson:"workoutTemplateId,omitempty" json:"workoutTemplateId"`
	Date              string              `bson:"date" json:"date"`
	Time              string              `bson:"time" json:"time"`
	Duration          int                 `bson:"duration" json:"duration"`
	Status            SessionStatus       `bson:"status" json:"status"`
	Note              string              `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// StartsAt combines Date and Time. Sessions without a time start at midnight.
func (s *Session) StartsAt() (time.Time, error) {
	if s.Time == "" {
		return time.Parse(DateLayout, s.Date)
	}
	return time.Parse(DateLayout+" "+TimeLayout, s.Date+" "+s.Time)
}

// SessionPatch is a partial session update.
type SessionPatch struct {
	Date              *string
	Time              *string
	Duration          *int
	Status            *SessionStatus
	Note              *string
	ClientID          *primitive.ObjectID
	WorkoutTemplateID *primitive.ObjectID

	ClearClient          bool
	ClearWorkoutTemplate bool
}

func (p SessionPatch) Apply(s *Session) {
	setString(&s.Date, p.Date)
	setString(&s.Time, p.Time)
	setString(&s.Note, p.Note)
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	switch {
	case p.ClearClient:
		s.ClientID = nil
	case p.ClientID != nil:
		id := *p.ClientID
		s.ClientID = &id
	}
	switch {
	case p.ClearWorkoutTemplate:
		s.WorkoutTemplateID = nil
	case p.WorkoutTemplateID != nil:
		id := *p.WorkoutTemplateID
		s.WorkoutTemplateID = &id
	}
}
