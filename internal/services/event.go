package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"meetupfinder/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	validate       *validator.Validate
	contextTimeout time.Duration
}

// NewEventService creates an EventService for the create, edit, delete and comment paths.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		validate:       newValidator(),
		contextTimeout: timeout,
	}
}

func (s *eventService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.eventRepo.LoadByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) CreateEvent(ctx context.Context, owner *domain.User, input domain.EventInput) (*domain.Event, error) {
	if owner == nil || owner.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	input = normalizeInput(input)
	if err := s.validate.Struct(input); err != nil {
		return nil, toValidationError(err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now()
	event := &domain.Event{
		Owner:     owner.Ref(),
		Comments:  []domain.Comment{},
		Attending: []domain.Attendee{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(event, input)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, actor *domain.User, input domain.EventInput) (*domain.Event, error) {
	if actor == nil || actor.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	input = normalizeInput(input)
	if err := s.validate.Struct(input); err != nil {
		return nil, toValidationError(err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.loadOwned(ctx, eventID, actor)
	if err != nil {
		return nil, err
	}
	applyInput(event, input)
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string, actor *domain.User) error {
	if actor == nil || actor.ID == "" {
		return domain.ErrUnauthenticated
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.loadOwned(ctx, eventID, actor); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) AddComment(ctx context.Context, eventID string, actor *domain.User, body string) (*domain.Comment, error) {
	if actor == nil || actor.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.NewValidationError("body", "is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Ensure the event exists.
	if _, err := s.eventRepo.LoadByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		Body:      body,
		User:      actor.Ref(),
		CreatedAt: time.Now(),
	}
	if err := s.eventRepo.AddComment(ctx, eventID, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

func (s *eventService) loadOwned(ctx context.Context, eventID string, actor *domain.User) (*domain.Event, error) {
	event, err := s.eventRepo.LoadByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Owner.ID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func normalizeInput(in domain.EventInput) domain.EventInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = strings.TrimSpace(in.Tags)
	return in
}

func applyInput(e *domain.Event, in domain.EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.DescriptionShort = domain.Preview(in.Description)
	e.Tags = in.Tags
	e.Location = domain.Point{Lng: in.Longitude, Lat: in.Latitude}
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
}
