package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxBulkSessions = 366

// BulkSessionRequest describes one session per date sharing everything else.
type BulkSessionRequest struct {
	Dates             []string
	Time              string
	Duration          int
	Status            domain.SessionStatus
	Note              string
	ClientID          *primitive.ObjectID
	WorkoutTemplateID *primitive.ObjectID
}

// BulkSessionResult is returned by BulkCreate.
type BulkSessionResult struct {
	Message         string           `json:"message"`
	SessionsCreated int              `json:"sessionsCreated"`
	Sessions        []domain.Session `json:"sessions"`
}

// SessionService schedules training sessions and keeps each client's
// nextSession pointing at their earliest upcoming scheduled session.
type SessionService interface {
	ListByDate(ctx context.Context, trainerID primitive.ObjectID, date string) ([]domain.Session, error)
	ListByMonth(ctx context.Context, trainerID primitive.ObjectID, month string) ([]domain.Session, error)
	ListAll(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, session *domain.Session) (*domain.Session, error)
	BulkCreate(ctx context.Context, trainerID primitive.ObjectID, req BulkSessionRequest) (*BulkSessionResult, error)
	Update(ctx context.Context, trainerID, sessionID primitive.ObjectID, patch domain.SessionPatch) (*domain.Session, error)
	Delete(ctx context.Context, trainerID, sessionID primitive.ObjectID) error
}

type sessionService struct {
	sessionRepo  repository.SessionRepository
	clientRepo   repository.ClientRepository
	templateRepo repository.WorkoutTemplateRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository, clientRepo repository.ClientRepository, templateRepo repository.WorkoutTemplateRepository, logger *zap.Logger) SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionService{
		sessionRepo:  sessionRepo,
		clientRepo:   clientRepo,
		templateRepo: templateRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *sessionService) ListByDate(ctx context.Context, trainerID primitive.ObjectID, date string) ([]domain.Session, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	return s.list(ctx, trainerID, repository.SessionFilter{Date: date})
}

func (s *sessionService) ListByMonth(ctx context.Context, trainerID primitive.ObjectID, month string) ([]domain.Session, error) {
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		return nil, invalid("month must be YYYY-MM")
	}
	return s.list(ctx, trainerID, repository.SessionFilter{Month: month})
}

func (s *sessionService) ListAll(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error) {
	return s.list(ctx, trainerID, repository.SessionFilter{})
}

func (s *sessionService) list(ctx context.Context, trainerID primitive.ObjectID, f repository.SessionFilter) ([]domain.Session, error) {
	sessions, err := s.sessionRepo.List(ctx, trainerID, f)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

func validateSession(sess *domain.Session) error {
	if _, err := time.Parse(domain.DateLayout, sess.Date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	if sess.Time != "" {
		if _, err := time.Parse(domain.TimeLayout, sess.Time); err != nil {
			return invalid("time must be HH:MM")
		}
	}
	if sess.Duration <= 0 || sess.Duration > 24*60 {
		return invalid("duration must be between 1 and 1440 minutes")
	}
	if !sess.Status.Valid() {
		return invalid("status must be one of scheduled, completed, cancelled, no_show")
	}
	return nil
}

func applySessionDefaults(sess *domain.Session) {
	if sess.Duration == 0 {
		sess.Duration = domain.DefaultSessionDuration
	}
	if sess.Status == "" {
		sess.Status = domain.StatusScheduled
	}
}

// checkRefs ensures referenced client and template belong to the trainer.
func (s *sessionService) checkRefs(ctx context.Context, trainerID primitive.ObjectID, clientID, templateID *primitive.ObjectID) error {
	if clientID != nil {
		if _, err := s.clientRepo.GetByID(ctx, trainerID, *clientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("get client: %w", err)
		}
	}
	if templateID != nil {
		if _, err := s.templateRepo.GetByID(ctx, trainerID, *templateID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTemplateNotFound
			}
			return fmt.Errorf("get workout template: %w", err)
		}
	}
	return nil
}

func (s *sessionService) Create(ctx context.Context, trainerID primitive.ObjectID, session *domain.Session) (*domain.Session, error) {
	if session == nil {
		return nil, invalid("session is required")
	}
	session.ID = primitive.NilObjectID
	session.TrainerID = trainerID
	applySessionDefaults(session)
	if err := validateSession(session); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, trainerID, session.ClientID, session.WorkoutTemplateID); err != nil {
		return nil, err
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.refreshNextSession(ctx, trainerID, session.ClientID)
	return session, nil
}

func (s *sessionService) BulkCreate(ctx context.Context, trainerID primitive.ObjectID, req BulkSessionRequest) (*BulkSessionResult, error) {
	if len(req.Dates) == 0 {
		return nil, invalid("dates must contain at least one date")
	}
	if len(req.Dates) > maxBulkSessions {
		return nil, invalid(fmt.Sprintf("at most %d dates per request", maxBulkSessions))
	}
	if err := s.checkRefs(ctx, trainerID, req.ClientID, req.WorkoutTemplateID); err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(req.Dates))
	for _, date := range req.Dates {
		sess := &domain.Session{
			TrainerID:         trainerID,
			ClientID:          req.ClientID,
			WorkoutTemplateID: req.WorkoutTemplateID,
			Date:              date,
			Time:              req.Time,
			Duration:          req.Duration,
			Status:            req.Status,
			Note:              req.Note,
		}
		applySessionDefaults(sess)
		if err := validateSession(sess); err != nil {
			return nil, fmt.Errorf("%s: %w", date, err)
		}
		sessions = append(sessions, sess)
	}

	if err := s.sessionRepo.CreateMany(ctx, sessions); err != nil {
		return nil, fmt.Errorf("create sessions: %w", err)
	}
	s.refreshNextSession(ctx, trainerID, req.ClientID)

	created := make([]domain.Session, len(sessions))
	for i, sess := range sessions {
		created[i] = *sess
	}
	return &BulkSessionResult{
		Message:         fmt.Sprintf("%d sessions created", len(created)),
		SessionsCreated: len(created),
		Sessions:        created,
	}, nil
}

func (s *sessionService) Update(ctx context.Context, trainerID, sessionID primitive.ObjectID, patch domain.SessionPatch) (*domain.Session, error) {
	session, err := s.get(ctx, trainerID, sessionID)
	if err != nil {
		return nil, err
	}
	previousClient := session.ClientID

	patch.Apply(session)
	if err := validateSession(session); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, trainerID, patch.ClientID, patch.WorkoutTemplateID); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}

	s.refreshNextSession(ctx, trainerID, session.ClientID)
	if previousClient != nil && (session.ClientID == nil || *previousClient != *session.ClientID) {
		s.refreshNextSession(ctx, trainerID, previousClient)
	}
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, trainerID, sessionID primitive.ObjectID) error {
	session, err := s.get(ctx, trainerID, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, trainerID, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	s.refreshNextSession(ctx, trainerID, session.ClientID)
	return nil
}

func (s *sessionService) get(ctx context.Context, trainerID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, trainerID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// refreshNextSession recomputes the client's nextSession. The session write
// has already succeeded, so a failure here is logged rather than returned.
func (s *sessionService) refreshNextSession(ctx context.Context, trainerID primitive.ObjectID, clientID *primitive.ObjectID) {
	if clientID == nil {
		return
	}
	log := s.logger.With(zap.String("client_id", clientID.Hex()))

	upcoming, err := s.sessionRepo.List(ctx, trainerID, repository.SessionFilter{ClientID: clientID, Status: domain.StatusScheduled})
	if err != nil {
		log.Warn("Failed to list sessions for nextSession refresh", zap.Error(err))
		return
	}
	next := earliestUpcoming(upcoming, s.now())

	client, err := s.clientRepo.GetByID(ctx, trainerID, *clientID)
	if err != nil {
		log.Warn("Failed to load client for nextSession refresh", zap.Error(err))
		return
	}
	if sameInstant(client.NextSession, next) {
		return
	}
	client.NextSession = next
	if err := s.clientRepo.Update(ctx, client); err != nil {
		log.Warn("Failed to store nextSession", zap.Error(err))
	}
}

// earliestUpcoming returns the start of the first session not before now.
func earliestUpcoming(sessions []domain.Session, now time.Time) *time.Time {
	var next *time.Time
	for i := range sessions {
		start, err := sessions[i].StartsAt()
		if err != nil || start.Before(now) {
			continue
		}
		if next == nil || start.Before(*next) {
			t := start
			next = &t
		}
	}
	return next
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
