package services

import (
	"context"
	"fmt"
	"log/slog"

	"meetupfinder/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendAttendanceConfirmation sends the "attendance" template to the attendee.
func (s *emailService) SendAttendanceConfirmation(ctx context.Context, data *domain.AttendanceEmailData) error {
	if data == nil {
		return fmt.Errorf("attendance email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("attendance", data)
	if err != nil {
		return fmt.Errorf("failed to render attendance template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send attendance email: %w", err)
	}
	s.logger.InfoContext(ctx, "attendance email sent", "event_id", data.EventID, "to", data.Email)
	return nil
}
