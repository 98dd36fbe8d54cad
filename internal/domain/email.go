package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// AttendanceEmailData holds data for the attendance confirmation email.
type AttendanceEmailData struct {
	Email      string
	Name       string
	EventID    string
	EventTitle string
	StartDate  string
	EventURL   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendAttendanceConfirmation(ctx context.Context, data *AttendanceEmailData) error
}
