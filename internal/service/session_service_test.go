package service

import (
	"context"
	"testing"
	"time"

	"trainerhub/app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var sessionClock = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type sessionFixture struct {
	svc     SessionService
	clients ClientService
	trainer primitive.ObjectID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	repos := newRepos()
	svc := NewSessionService(repos.Sessions, repos.Clients, repos.Templates, nil)
	svc.(*sessionService).now = func() time.Time { return sessionClock }
	return &sessionFixture{
		svc:     svc,
		clients: NewClientService(repos.Clients, repos.Templates),
		trainer: primitive.NewObjectID(),
	}
}

func (f *sessionFixture) client(t *testing.T, name string) *domain.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), f.trainer, &domain.Client{Name: name})
	require.NoError(t, err)
	return c
}

func (f *sessionFixture) nextSession(t *testing.T, clientID primitive.ObjectID) *time.Time {
	t.Helper()
	c, err := f.clients.Get(context.Background(), f.trainer, clientID)
	require.NoError(t, err)
	return c.NextSession
}

func TestSessionCreateDefaults(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)

	s, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2025-01-10", Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSessionDuration, s.Duration)
	assert.Equal(t, domain.StatusScheduled, s.Status)
	assert.Equal(t, f.trainer, s.TrainerID)

	cases := []*domain.Session{
		{Date: "10-01-2025"},
		{Date: "2025-01-10", Time: "9am"},
		{Date: "2025-01-10", Duration: 2000},
		{Date: "2025-01-10", Status: "done"},
	}
	for _, c := range cases {
		_, err := f.svc.Create(ctx, f.trainer, c)
		assert.ErrorIs(t, err, ErrValidation)
	}

	_, err = f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2025-01-10", ClientID: ptrID(primitive.NewObjectID())})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestSessionListing(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)

	for _, d := range []string{"2025-01-10", "2025-01-10", "2025-02-01"} {
		_, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: d})
		require.NoError(t, err)
	}

	byDate, err := f.svc.ListByDate(ctx, f.trainer, "2025-01-10")
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	byMonth, err := f.svc.ListByMonth(ctx, f.trainer, "2025-02")
	require.NoError(t, err)
	assert.Len(t, byMonth, 1)

	all, err := f.svc.ListAll(ctx, f.trainer)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := f.svc.ListAll(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.svc.ListByDate(ctx, f.trainer, "tomorrow")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.ListByMonth(ctx, f.trainer, "2025-13")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulkCreateSessions(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	c := f.client(t, "John Doe")

	res, err := f.svc.BulkCreate(ctx, f.trainer, BulkSessionRequest{
		Dates:    []string{"2025-01-06", "2025-01-08", "2025-01-10"},
		Time:     "07:30",
		Duration: 45,
		ClientID: &c.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.SessionsCreated)
	assert.Equal(t, "3 sessions created", res.Message)
	require.Len(t, res.Sessions, 3)
	for _, s := range res.Sessions {
		assert.False(t, s.ID.IsZero())
		assert.Equal(t, 45, s.Duration)
		assert.Equal(t, domain.StatusScheduled, s.Status)
	}

	all, err := f.svc.ListAll(ctx, f.trainer)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	next := f.nextSession(t, c.ID)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2025, 1, 6, 7, 30, 0, 0, time.UTC), *next)
}

func TestBulkCreateRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)

	_, err := f.svc.BulkCreate(ctx, f.trainer, BulkSessionRequest{Dates: []string{"2025-01-06", "not-a-date"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.BulkCreate(ctx, f.trainer, BulkSessionRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.BulkCreate(ctx, f.trainer, BulkSessionRequest{Dates: make([]string, maxBulkSessions+1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.BulkCreate(ctx, f.trainer, BulkSessionRequest{
		Dates:             []string{"2025-01-06"},
		WorkoutTemplateID: ptrID(primitive.NewObjectID()),
	})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	all, err := f.svc.ListAll(ctx, f.trainer)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNextSessionTracksScheduledSessions(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	c := f.client(t, "John Doe")

	past, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2024-12-30", Time: "10:00", ClientID: &c.ID})
	require.NoError(t, err)
	assert.Nil(t, f.nextSession(t, c.ID), "sessions in the past do not count")

	later, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2025-01-20", Time: "10:00", ClientID: &c.ID})
	require.NoError(t, err)
	sooner, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2025-01-05", Time: "18:00", ClientID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 5, 18, 0, 0, 0, time.UTC), *f.nextSession(t, c.ID))

	cancelled := domain.StatusCancelled
	_, err = f.svc.Update(ctx, f.trainer, sooner.ID, domain.SessionPatch{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC), *f.nextSession(t, c.ID))

	require.NoError(t, f.svc.Delete(ctx, f.trainer, later.ID))
	assert.Nil(t, f.nextSession(t, c.ID))

	require.NoError(t, f.svc.Delete(ctx, f.trainer, past.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.trainer, past.ID), ErrSessionNotFound)
}

func TestSessionReassignRefreshesBothClients(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)
	first := f.client(t, "First")
	second := f.client(t, "Second")

	s, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2025-01-15", Time: "08:00", ClientID: &first.ID})
	require.NoError(t, err)
	require.NotNil(t, f.nextSession(t, first.ID))

	_, err = f.svc.Update(ctx, f.trainer, s.ID, domain.SessionPatch{ClientID: &second.ID})
	require.NoError(t, err)
	assert.Nil(t, f.nextSession(t, first.ID))
	require.NotNil(t, f.nextSession(t, second.ID))

	_, err = f.svc.Update(ctx, f.trainer, s.ID, domain.SessionPatch{ClearClient: true})
	require.NoError(t, err)
	assert.Nil(t, f.nextSession(t, second.ID))
}

func TestSessionUpdateOtherTrainer(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t)

	s, err := f.svc.Create(ctx, f.trainer, &domain.Session{Date: "2025-01-15"})
	require.NoError(t, err)

	note := "mine now"
	_, err = f.svc.Update(ctx, primitive.NewObjectID(), s.ID, domain.SessionPatch{Note: &note})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEarliestUpcoming(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		{Date: "2025-01-10", Time: "11:59"},
		{Date: "2025-01-12", Time: "09:00"},
		{Date: "2025-01-10", Time: "12:00"},
		{Date: "garbage"},
	}
	next := earliestUpcoming(sessions, now)
	require.NotNil(t, next)
	assert.Equal(t, now, *next)

	assert.Nil(t, earliestUpcoming(nil, now))
}
