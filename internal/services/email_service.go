package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/mail"
	"strings"

	"telegram-crm-backend/internal/mailer"
	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/store"
)

type EmailService struct {
	store   *store.Store
	history *HistoryService
	sender  mailer.Sender
	from    string
	logger  *slog.Logger
}

// NewEmailService returns the project mailer. A nil sender disables sending.
func NewEmailService(st *store.Store, history *HistoryService, sender mailer.Sender, from string, logger *slog.Logger) *EmailService {
	return &EmailService{store: st, history: history, sender: sender, from: from, logger: logger}
}

type EmailInput struct {
	To      string
	Subject string
	Body    string
}

func (s *EmailService) Enabled() bool { return s.sender != nil }

// Send mails a message on behalf of a project and records it in the timeline.
// It returns the Message-ID reported by the sender.
func (s *EmailService) Send(ctx context.Context, projectID int64, in EmailInput) (string, error) {
	to := strings.TrimSpace(in.To)
	if to == "" || strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Body) == "" {
		return "", invalid("to, subject and body are required")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return "", invalid("invalid recipient address %q", to)
	}
	if !s.Enabled() {
		return "", invalid("email sending is disabled")
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if isStoreNotFound(err) {
			return "", notFound("project not found")
		}
		return "", err
	}

	msg := mailer.Message{
		From:    s.from,
		To:      to,
		Subject: fmt.Sprintf("[Project: %s] %s", project.Title, in.Subject),
		Text:    in.Body,
		HTML:    strings.ReplaceAll(html.EscapeString(in.Body), "\n", "<br>"),
	}
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	s.history.record(ctx, projectID, models.ActionEmailSent,
		fmt.Sprintf(`Email "%s" sent to %s`, in.Subject, to))
	s.logger.Info("email sent", "project_id", projectID, "message_id", id)
	return id, nil
}
