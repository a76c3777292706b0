package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
)

// NewNotifier picks the delivery channel named by cfg.Provider.
func NewNotifier(cfg config.NotificationConfig, publicBaseURL string) (Notifier, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return NoopNotifier{}, nil
	case "sendgrid":
		return NewSendGridNotifier(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName, publicBaseURL), nil
	case "smtp":
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName, publicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported notification provider: %s", cfg.Provider)
	}
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyModeration(ctx context.Context, profile *domain.Profile, action domain.ModerationAction, reason string) error {
	logger.Debug("Notification skipped", "profileID", profile.ID, "action", action)
	return nil
}

type moderationMessage struct {
	Subject string
	Text    string
}

// buildModerationMessage renders the owner-facing text for one decision.
func buildModerationMessage(profile *domain.Profile, action domain.ModerationAction, reason, baseURL string) moderationMessage {
	name := "there"
	if profile.Name != nil && *profile.Name != "" {
		name = *profile.Name
	}
	baseURL = strings.TrimRight(baseURL, "/")

	var subject, body string
	switch action {
	case domain.ModerationApprove:
		subject = "Your alumni profile has been approved"
		body = "Your profile is now visible in the alumni directory."
		if baseURL != "" {
			body += fmt.Sprintf("\n\nVisit %s/dashboard to get started.", baseURL)
		}
	case domain.ModerationReject:
		subject = "Your alumni profile needs changes"
		body = "Your profile was not approved."
		if reason != "" {
			body += fmt.Sprintf("\n\nReason: %s", reason)
		}
		if baseURL != "" {
			body += fmt.Sprintf("\n\nYou can update and resubmit it at %s/profile.", baseURL)
		}
	case domain.ModerationBlock:
		subject = "Your alumni directory access has been suspended"
		body = "Your account can no longer sign in to the alumni directory."
		if reason != "" {
			body += fmt.Sprintf("\n\nReason: %s", reason)
		}
	case domain.ModerationUnblock:
		subject = "Your alumni directory access has been restored"
		body = "You can sign in again. Your profile will need to be reviewed before it is visible."
	default:
		subject = "Your alumni profile was updated"
		body = fmt.Sprintf("Your profile status is now %s.", profile.Status)
	}

	return moderationMessage{
		Subject: subject,
		Text:    fmt.Sprintf("Hello %s,\n\n%s\n\nBest regards,\nThe Alumni Directory Team", name, body),
	}
}

func ownerName(profile *domain.Profile) string {
	if profile.Name != nil {
		return *profile.Name
	}
	return ""
}

type sendGridClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridNotifier struct {
	client    sendGridClient
	fromEmail string
	fromName  string
	baseURL   string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName, baseURL string) Notifier {
	return &sendGridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}
}

func (n *sendGridNotifier) NotifyModeration(ctx context.Context, profile *domain.Profile, action domain.ModerationAction, reason string) error {
	msg := buildModerationMessage(profile, action, reason, n.baseURL)

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(ownerName(profile), profile.Email)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, "")

	logger.ExternalServiceCall("sendgrid", "Send", "to", profile.Email, "action", action)
	response, err := n.client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", profile.Email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpNotifier struct {
	dialer    mailDialer
	fromEmail string
	fromName  string
	baseURL   string
}

func NewSMTPNotifier(host string, port int, username, password, fromEmail, fromName, baseURL string) Notifier {
	return &smtpNotifier{
		dialer:    gomail.NewDialer(host, port, username, password),
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}
}

func (n *smtpNotifier) NotifyModeration(ctx context.Context, profile *domain.Profile, action domain.ModerationAction, reason string) error {
	msg := buildModerationMessage(profile, action, reason, n.baseURL)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.fromEmail, n.fromName)
	m.SetHeader("To", profile.Email)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)

	logger.ExternalServiceCall("smtp", "DialAndSend", "to", profile.Email, "action", action)
	err := n.dialer.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "DialAndSend", err, "to", profile.Email)
	if err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}
