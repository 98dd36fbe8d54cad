package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"meetupfinder/internal/domain"
)

// AttendanceConfig configures the attendance manager.
type AttendanceConfig struct {
	// BaseURL is used to build links in confirmation emails.
	BaseURL string
	Timeout time.Duration
}

type attendanceManager struct {
	eventRepo    domain.EventRepository
	emailService domain.EmailService
	logger       *slog.Logger
	cfg          AttendanceConfig
}

// NewAttendanceManager creates an AttendanceManager. emailService may be nil.
func NewAttendanceManager(eventRepo domain.EventRepository, emailService domain.EmailService, logger *slog.Logger, cfg AttendanceConfig) domain.AttendanceManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &attendanceManager{
		eventRepo:    eventRepo,
		emailService: emailService,
		logger:       logger,
		cfg:          cfg,
	}
}

func (m *attendanceManager) Join(ctx context.Context, event *domain.Event, user *domain.User) (domain.JoinStatus, error) {
	if user == nil || user.ID == "" {
		return domain.JoinUnauthenticated, nil
	}
	if event.IsAttending(user.ID) {
		return domain.JoinAlreadyAttending, nil
	}

	now := time.Now()
	prev := event.Attending
	event.Attending = append(event.Attending, domain.Attendee{User: user.Ref(), CreatedAt: now})

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	added, err := m.eventRepo.AddAttendee(ctx, event.ID, user.ID, now)
	if err != nil {
		event.Attending = prev
		return domain.JoinFailed, fmt.Errorf("add attendee: %w", err)
	}
	if !added {
		// Another request stored the same attendee first.
		event.Attending = prev
		m.logger.DebugContext(ctx, "attendee already stored", "event_id", event.ID, "user_id", user.ID)
		return domain.JoinAlreadyAttending, nil
	}

	m.notify(ctx, event, user)
	return domain.JoinOK, nil
}

func (m *attendanceManager) notify(ctx context.Context, event *domain.Event, user *domain.User) {
	if m.emailService == nil || user.Email == "" {
		return
	}
	data := &domain.AttendanceEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventID:    event.ID,
		EventTitle: event.Title,
		StartDate:  event.StartDate.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
		EventURL:   strings.TrimSuffix(m.cfg.BaseURL, "/") + "/meetups/" + event.ID,
	}
	if err := m.emailService.SendAttendanceConfirmation(ctx, data); err != nil {
		m.logger.WarnContext(ctx, "attendance confirmation not sent", "event_id", event.ID, "user_id", user.ID, "err", err)
	}
}
