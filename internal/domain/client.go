package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is the membership plan a client is on.
type Plan string

const (
	PlanPremiumMonthly Plan = "Premium Monthly"
	PlanStandardWeekly Plan = "Standard Weekly"
	PlanSingleSession  Plan = "Single Session"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanPremiumMonthly, PlanStandardWeekly, PlanSingleSession:
		return true
	}
	return false
}

// Client is a trainer's customer record.
type Client struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID         primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	Name              string              `bson:"name" json:"name"`
	Email             string              `bson:"email" json:"email"`
	Phone             string              `bson:"phone" json:"phone"`
	Address           string              `bson:"address" json:"address"`
	Plan              Plan                `bson:"plan" json:"plan"`
	Goal              string              `bson:"goal" json:"goal"`
	Age               *int                `bson:"age,omitempty" json:"age"`
	Height            *float64            `bson:"height,omitempty" json:"height"`
	Weight            *float64            `bson:"weight,omitempty" json:"weight"`
	TargetWeight      *float64            `bson:"targetWeight,omitempty" json:"targetWeight"`
	Notes             string              `bson:"notes" json:"notes"`
	NextSession       *time.Time          `bson:"nextSession,omitempty" json:"nextSession"`
	WorkoutTemplateID *primitive.ObjectID `bson:"workoutTemplateId,omitempty" json:"workoutTemplateId"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ClientPatch carries a partial update. A nil field is left untouched;
// the Clear* flags null out optional fields.
type ClientPatch struct {
	Name         *string
	Email        *string
	Phone        *string
	Address      *string
	Plan         *Plan
	Goal         *string
	Age          *int
	Height       *float64
	Weight       *float64
	TargetWeight *float64
	Notes        *string
	NextSession  *time.Time

	ClearAge          bool
	ClearHeight       bool
	ClearWeight       bool
	ClearTargetWeight bool
	ClearNextSession  bool
}

// Apply copies the patch onto c.
func (p ClientPatch) Apply(c *Client) {
	setString(&c.Name, p.Name)
	setString(&c.Email, p.Email)
	setString(&c.Phone, p.Phone)
	setString(&c.Address, p.Address)
	setString(&c.Goal, p.Goal)
	setString(&c.Notes, p.Notes)
	if p.Plan != nil {
		c.Plan = *p.Plan
	}
	switch {
	case p.ClearAge:
		c.Age = nil
	case p.Age != nil:
		v := *p.Age
		c.Age = &v
	}
	setFloat(&c.Height, p.Height, p.ClearHeight)
	setFloat(&c.Weight, p.Weight, p.ClearWeight)
	setFloat(&c.TargetWeight, p.TargetWeight, p.ClearTargetWeight)
	switch {
	case p.ClearNextSession:
		c.NextSession = nil
	case p.NextSession != nil:
		v := p.NextSession.UTC()
		c.NextSession = &v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst **float64, v *float64, clear bool) {
	switch {
	case clear:
		*dst = nil
	case v != nil:
		f := *v
		*dst = &f
	}
}
