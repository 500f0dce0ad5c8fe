package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientService manages a trainer's client records.
type ClientService interface {
	List(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, client *domain.Client) (*domain.Client, error)
	Get(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error)
	Update(ctx context.Context, trainerID, clientID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	AssignTemplate(ctx context.Context, trainerID, clientID, templateID primitive.ObjectID) (*domain.Client, error)
	RemoveTemplate(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error)
}

type clientService struct {
	clientRepo   repository.ClientRepository
	templateRepo repository.WorkoutTemplateRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository, templateRepo repository.WorkoutTemplateRepository) ClientService {
	return &clientService{clientRepo: clientRepo, templateRepo: templateRepo}
}

func (s *clientService) List(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

func validateClient(c *domain.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name is required")
	}
	if c.Email != "" {
		// Bare addresses only; "Name <addr>" forms are rejected.
		if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
			return invalid("email is not valid")
		}
	}
	if !c.Plan.Valid() {
		return invalid("plan must be one of Premium Monthly, Standard Weekly, Single Session")
	}
	if c.Age != nil && *c.Age < 0 {
		return invalid("age cannot be negative")
	}
	for _, f := range []*float64{c.Height, c.Weight, c.TargetWeight} {
		if f != nil && *f < 0 {
			return invalid("body measurements cannot be negative")
		}
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, trainerID primitive.ObjectID, client *domain.Client) (*domain.Client, error) {
	if client == nil {
		return nil, invalid("client is required")
	}
	client.ID = primitive.NilObjectID
	client.TrainerID = trainerID
	if client.Plan == "" {
		client.Plan = domain.PlanPremiumMonthly
	}
	if client.WorkoutTemplateID != nil {
		if err := s.checkTemplate(ctx, trainerID, *client.WorkoutTemplateID); err != nil {
			return nil, err
		}
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *clientService) Get(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

func (s *clientService) Update(ctx context.Context, trainerID, clientID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error) {
	client, err := s.Get(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	patch.Apply(client)
	if err := validateClient(client); err != nil {
		return nil, err
	}
	return client, s.save(ctx, client)
}

func (s *clientService) Delete(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	if err := s.clientRepo.Delete(ctx, trainerID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *clientService) AssignTemplate(ctx context.Context, trainerID, clientID, templateID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.Get(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTemplate(ctx, trainerID, templateID); err != nil {
		return nil, err
	}
	client.WorkoutTemplateID = &templateID
	return client, s.save(ctx, client)
}

func (s *clientService) RemoveTemplate(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.Get(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	client.WorkoutTemplateID = nil
	return client, s.save(ctx, client)
}

func (s *clientService) checkTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error {
	if _, err := s.templateRepo.GetByID(ctx, trainerID, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("get workout template: %w", err)
	}
	return nil
}

func (s *clientService) save(ctx context.Context, client *domain.Client) error {
	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}
