package service

import (
	"context"
	"fmt"
	"time"

	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/templates"
	"github.com/osa911/formrelay/internal/tenant"
)

// testSenderName is the display name of transporter test emails
const testSenderName = "Contact form"

// MailService renders and sends the admin and confirmation emails
type MailService struct {
	registry  *tenant.Registry
	pool      *mailer.Pool
	renderer  *templates.Renderer
	localizer *i18n.Localizer
}

// NewMailService creates a new mail service
func NewMailService(registry *tenant.Registry, pool *mailer.Pool, renderer *templates.Renderer, localizer *i18n.Localizer) *MailService {
	return &MailService{
		registry:  registry,
		pool:      pool,
		renderer:  renderer,
		localizer: localizer,
	}
}

// transport finds the transporter of an app and its live transport
func (s *MailService) transport(app *tenant.App) (*tenant.Transporter, mailer.Transport, error) {
	if app.SMTP == "" {
		return nil, nil, fmt.Errorf("app %s: %w", app.ID, ErrNoTransporter)
	}
	t, ok := s.registry.Transporter(app.SMTP)
	if !ok {
		return nil, nil, fmt.Errorf("app %s, transporter %s: %w", app.ID, app.SMTP, ErrNoTransporter)
	}
	transport, ok := s.pool.Get(t.ID)
	if !ok {
		return nil, nil, fmt.Errorf("app %s, transporter %s: %w", app.ID, t.ID, ErrNoTransporter)
	}
	return t, transport, nil
}

// SenderAddress returns the address an app sends mail from, if any.
func (s *MailService) SenderAddress(app *tenant.App) (string, error) {
	t, _, err := s.transport(app)
	if err != nil {
		return "", err
	}
	return t.SenderAddress(), nil
}

// BuildAdminMessage renders the admin notification for a submission
func (s *MailService) BuildAdminMessage(app *tenant.App, sender string, sub contact.Submission, date time.Time) (*mailer.Message, error) {
	if app.Email == "" {
		return nil, fmt.Errorf("app %s has no admin email: %w", app.ID, ErrNoRecipient)
	}

	data := sub.Fields()
	data["app_name"] = app.DisplayName()
	data["date"] = date.Format(time.RFC1123)

	out, err := s.renderer.Render(templates.Admin, data)
	if err != nil {
		return nil, err
	}

	return &mailer.Message{
		From:    mailer.Address{Name: app.DisplayName(), Email: sender},
		To:      []mailer.Address{{Email: app.Email}},
		ReplyTo: &mailer.Address{Name: sub.Name, Email: sub.Email},
		Subject: "New message on " + app.DisplayName(),
		Text:    out.Text,
		HTML:    out.HTML,
		Date:    date,
	}, nil
}

// BuildConfirmationMessage renders the localized copy sent back to the submitter
func (s *MailService) BuildConfirmationMessage(sender string, sub contact.Submission, locale, domain string, date time.Time) (*mailer.Message, error) {
	if sub.Email == "" {
		return nil, ErrNoRecipient
	}

	tr := func(key string, params ...string) string {
		return s.localizer.T(locale, "confirmation-email."+key, params...)
	}

	data := sub.Fields()
	data["domain"] = domain
	data["locale"] = locale
	data["t"] = map[string]interface{}{
		"subject":       tr("subject"),
		"greeting":      tr("greeting", sub.Name),
		"intro":         tr("intro"),
		"recap":         tr("recap"),
		"subject_label": tr("subject-label"),
		"footer":        tr("footer", domain),
	}

	out, err := s.renderer.Render(templates.Confirmation, data)
	if err != nil {
		return nil, err
	}

	return &mailer.Message{
		From:    mailer.Address{Name: tr("from"), Email: sender},
		To:      []mailer.Address{{Name: sub.Name, Email: sub.Email}},
		Subject: tr("subject"),
		Text:    out.Text,
		HTML:    out.HTML,
		Date:    date,
	}, nil
}

// SendAdminEmail notifies the app owner of a submission
func (s *MailService) SendAdminEmail(ctx context.Context, app *tenant.App, sub contact.Submission, date time.Time) (*mailer.Message, error) {
	t, transport, err := s.transport(app)
	if err != nil {
		return nil, err
	}

	msg, err := s.BuildAdminMessage(app, t.SenderAddress(), sub, date)
	if err != nil {
		return nil, err
	}
	return msg, transport.Send(ctx, msg)
}

// SendConfirmationEmail sends the submitter a copy of their message
func (s *MailService) SendConfirmationEmail(ctx context.Context, app *tenant.App, sub contact.Submission, locale, domain string, date time.Time) (*mailer.Message, error) {
	t, transport, err := s.transport(app)
	if err != nil {
		return nil, err
	}

	msg, err := s.BuildConfirmationMessage(t.SenderAddress(), sub, locale, domain, date)
	if err != nil {
		return nil, err
	}
	return msg, transport.Send(ctx, msg)
}

// SendTestEmail sends a short test message through a transporter
func (s *MailService) SendTestEmail(ctx context.Context, transporterID, to string) error {
	t, ok := s.registry.Transporter(transporterID)
	if !ok {
		return fmt.Errorf("transporter %s: %w", transporterID, ErrNoTransporter)
	}
	transport, ok := s.pool.Get(t.ID)
	if !ok {
		return fmt.Errorf("transporter %s: %w", transporterID, ErrNoTransporter)
	}

	return transport.Send(ctx, &mailer.Message{
		From:    mailer.Address{Name: testSenderName, Email: t.SenderAddress()},
		To:      []mailer.Address{{Email: to}},
		Subject: "formrelay test message",
		Text:    "This message was sent through transporter " + t.ID + ".",
		HTML:    "<p>This message was sent through transporter <strong>" + t.ID + "</strong>.</p>",
		Date:    time.Now(),
	})
}
