package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progress is one body measurement entry for a client. An optional photo
// lives in object storage under PhotoKey.
type Progress struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date      string             `bson:"date" json:"date"`
	Weight    *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Chest     *float64           `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist     *float64           `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips      *float64           `bson:"hips,omitempty" json:"hips,omitempty"`
	Biceps    *float64           `bson:"biceps,omitempty" json:"biceps,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PhotoKey  string             `bson:"photoKey,omitempty" json:"-"` // Internal use
	HasPhoto  bool               `bson:"-" json:"hasPhoto"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgressPatch is a partial measurement update. The Clear flags remove a
// measurement the trainer entered by mistake.
type ProgressPatch struct {
	Date   *string
	Weight *float64
	Chest  *float64
	Waist  *float64
	Hips   *float64
	Biceps *float64
	Notes  *string

	ClearWeight bool
	ClearChest  bool
	ClearWaist  bool
	ClearHips   bool
	ClearBiceps bool
}

func (p ProgressPatch) Apply(m *Progress) {
	setString(&m.Date, p.Date)
	setString(&m.Notes, p.Notes)
	setFloat(&m.Weight, p.Weight, p.ClearWeight)
	setFloat(&m.Chest, p.Chest, p.ClearChest)
	setFloat(&m.Waist, p.Waist, p.ClearWaist)
	setFloat(&m.Hips, p.Hips, p.ClearHips)
	setFloat(&m.Biceps, p.Biceps, p.ClearBiceps)
}

// MetricStats summarises one measurement series.
type MetricStats struct {
	First  float64 `json:"first"`
	Latest float64 `json:"latest"`
	Change float64 `json:"change"`
}

// ProgressStats is derived from a client's measurements, oldest to newest.
type ProgressStats struct {
	ClientID  primitive.ObjectID      `json:"clientId"`
	Count     int                     `json:"count"`
	FirstDate string                  `json:"firstDate,omitempty"`
	LastDate  string                  `json:"lastDate,omitempty"`
	Metrics   map[string]*MetricStats `json:"metrics"`
}
