package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"trainerhub/app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fields is a decoded partial-update body. A key that is absent leaves the
// stored value alone; an explicit null clears it.
type fields map[string]json.RawMessage

var jsonNull = []byte("null")

func (f fields) isNull(key string) bool {
	raw, ok := f[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func (f fields) decode(key string, dst any) (bool, error) {
	raw, ok := f[key]
	if !ok || f.isNull(key) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("field %q: %w", key, err)
	}
	return true, nil
}

// str reads a string field. null becomes the empty string.
func (f fields) str(key string) (*string, error) {
	if _, ok := f[key]; !ok {
		return nil, nil
	}
	var v string
	if _, err := f.decode(key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (f fields) float(key string) (v *float64, clear bool, err error) {
	if f.isNull(key) {
		return nil, true, nil
	}
	var n float64
	ok, err := f.decode(key, &n)
	if !ok || err != nil {
		return nil, false, err
	}
	return &n, false, nil
}

func (f fields) integer(key string) (v *int, clear bool, err error) {
	if f.isNull(key) {
		return nil, true, nil
	}
	var n int
	ok, err := f.decode(key, &n)
	if !ok || err != nil {
		return nil, false, err
	}
	return &n, false, nil
}

func (f fields) timestamp(key string) (v *time.Time, clear bool, err error) {
	if f.isNull(key) {
		return nil, true, nil
	}
	var t time.Time
	ok, err := f.decode(key, &t)
	if !ok || err != nil {
		return nil, false, err
	}
	return &t, false, nil
}

// objectID reads an ID field. null and "" both clear.
func (f fields) objectID(key string) (v *primitive.ObjectID, clear bool, err error) {
	if f.isNull(key) {
		return nil, true, nil
	}
	var s string
	ok, err := f.decode(key, &s)
	if !ok || err != nil {
		return nil, false, err
	}
	if s == "" {
		return nil, true, nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, false, fmt.Errorf("field %q: invalid id", key)
	}
	return &id, false, nil
}

func (f fields) clientPatch() (domain.ClientPatch, error) {
	var (
		p   domain.ClientPatch
		err error
	)
	for key, dst := range map[string]**string{
		"name": &p.Name, "email": &p.Email, "phone": &p.Phone,
		"address": &p.Address, "goal": &p.Goal, "notes": &p.Notes,
	} {
		if *dst, err = f.str(key); err != nil {
			return p, err
		}
	}
	plan, err := f.str("plan")
	if err != nil {
		return p, err
	}
	if plan != nil {
		v := domain.Plan(*plan)
		p.Plan = &v
	}
	if p.Age, p.ClearAge, err = f.integer("age"); err != nil {
		return p, err
	}
	if p.Height, p.ClearHeight, err = f.float("height"); err != nil {
		return p, err
	}
	if p.Weight, p.ClearWeight, err = f.float("weight"); err != nil {
		return p, err
	}
	if p.TargetWeight, p.ClearTargetWeight, err = f.float("targetWeight"); err != nil {
		return p, err
	}
	if p.NextSession, p.ClearNextSession, err = f.timestamp("nextSession"); err != nil {
		return p, err
	}
	return p, nil
}

func (f fields) sessionPatch() (domain.SessionPatch, error) {
	var (
		p   domain.SessionPatch
		err error
	)
	if p.Date, err = f.str("date"); err != nil {
		return p, err
	}
	if p.Time, err = f.str("time"); err != nil {
		return p, err
	}
	if p.Note, err = f.str("note"); err != nil {
		return p, err
	}
	if p.Duration, _, err = f.integer("duration"); err != nil {
		return p, err
	}
	status, err := f.str("status")
	if err != nil {
		return p, err
	}
	if status != nil {
		v := domain.SessionStatus(*status)
		p.Status = &v
	}
	if p.ClientID, p.ClearClient, err = f.objectID("clientId"); err != nil {
		return p, err
	}
	if p.WorkoutTemplateID, p.ClearWorkoutTemplate, err = f.objectID("workoutTemplateId"); err != nil {
		return p, err
	}
	return p, nil
}

func (f fields) progressPatch() (domain.ProgressPatch, error) {
	var (
		p   domain.ProgressPatch
		err error
	)
	if p.Date, err = f.str("date"); err != nil {
		return p, err
	}
	if p.Notes, err = f.str("notes"); err != nil {
		return p, err
	}
	for key, dst := range map[string]struct {
		value **float64
		clear *bool
	}{
		"weight": {&p.Weight, &p.ClearWeight},
		"chest":  {&p.Chest, &p.ClearChest},
		"waist":  {&p.Waist, &p.ClearWaist},
		"hips":   {&p.Hips, &p.ClearHips},
		"biceps": {&p.Biceps, &p.ClearBiceps},
	} {
		if *dst.value, *dst.clear, err = f.float(key); err != nil {
			return p, err
		}
	}
	return p, nil
}
