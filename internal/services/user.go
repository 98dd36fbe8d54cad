package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"meetupfinder/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	eventRepo      domain.EventRepository
	validate       *validator.Validate
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repositories.
func NewUserService(userRepo domain.UserRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		validate:       newValidator(),
		contextTimeout: timeout,
	}
}

func (s *userService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Profile returns the user together with the events they own, newest first.
func (s *userService) Profile(ctx context.Context, userID string, page domain.PaginationParams) (*domain.UserProfile, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.eventRepo.ListRecent(ctx, domain.ListCriteria{OwnerID: userID, Pagination: page})
	if err != nil {
		return nil, fmt.Errorf("list user events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	owned, err := s.eventRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user events: %w", err)
	}
	total, err := s.eventRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	return &domain.UserProfile{User: u, Events: events, OwnedEvents: owned, TotalEvents: total}, nil
}

func (s *userService) UpdateEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewValidationError("email", "must be a valid email")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.userRepo.UpdateEmail(ctx, userID, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update email: %w", err)
	}
	return u, nil
}
