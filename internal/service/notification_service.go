package service

import (
	"context"
	"time"

	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/tasks"
	"github.com/osa911/formrelay/internal/telemetry"
	"github.com/osa911/formrelay/internal/tenant"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Notification channels
const (
	ChannelWebhook      = "webhook"
	ChannelAdminEmail   = "admin_email"
	ChannelConfirmation = "confirmation_email"
)

// TaskSubmitter schedules detached work
type TaskSubmitter interface {
	Submit(task tasks.Task) bool
}

// Notification is one accepted submission to fan out
type Notification struct {
	App        *tenant.App
	Submission contact.Submission
	Locale     string
	// Domain is the Host the form was posted from
	Domain    string
	RequestID string
}

// NotificationService fans a submission out to the app's destinations.
// Every delivery is best effort: failures are logged and counted, never
// retried and never reported to the submitter.
type NotificationService struct {
	webhook  *WebhookService
	mail     *MailService
	executor TaskSubmitter
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(webhook *WebhookService, mail *MailService, executor TaskSubmitter, m *metrics.Metrics) *NotificationService {
	return &NotificationService{
		webhook:  webhook,
		mail:     mail,
		executor: executor,
		metrics:  m,
		tracer:   telemetry.Tracer(),
		now:      time.Now,
	}
}

// Notify schedules the deliveries due for n and returns how many were
// scheduled.
func (s *NotificationService) Notify(n Notification) int {
	scheduled := 0
	date := s.now()

	if url := n.App.WebhookURL(); url != "" {
		if s.schedule(n, ChannelWebhook, func(ctx context.Context) error {
			return s.sendWebhook(ctx, n, url, date)
		}) {
			scheduled++
		}
	}

	if n.App.Email != "" {
		if s.schedule(n, ChannelAdminEmail, func(ctx context.Context) error {
			msg, err := s.mail.SendAdminEmail(ctx, n.App, n.Submission, date)
			s.logEmail(n, "admin", msg, err)
			return err
		}) {
			scheduled++
		}
	}

	if n.Submission.Confirm {
		if s.schedule(n, ChannelConfirmation, func(ctx context.Context) error {
			msg, err := s.mail.SendConfirmationEmail(ctx, n.App, n.Submission, n.Locale, n.Domain, date)
			s.logEmail(n, "confirmation", msg, err)
			return err
		}) {
			scheduled++
		}
	}

	return scheduled
}

func (s *NotificationService) schedule(n Notification, channel string, run func(ctx context.Context) error) bool {
	return s.executor.Submit(tasks.Task{
		Name: channel,
		Run: func(ctx context.Context) error {
			ctx, span := s.tracer.Start(ctx, "notify."+channel, trace.WithAttributes(
				attribute.String("app.id", n.App.ID),
				attribute.String("request.id", n.RequestID),
			))
			defer span.End()

			start := time.Now()
			err := run(ctx)
			s.metrics.ObserveDelivery(channel, err, time.Since(start))

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		},
	})
}

func (s *NotificationService) sendWebhook(ctx context.Context, n Notification, url string, date time.Time) error {
	logger := logging.GetGlobalLogger()

	err := s.webhook.SendContactMessage(ctx, url, n.App.DisplayName(), n.Submission, date)
	if err != nil {
		logger.Error("[%s] Webhook delivery for app %s failed: %v", n.RequestID, n.App.ID, err)
		return err
	}

	logger.Info("[%s] Webhook delivered for app %s", n.RequestID, n.App.ID)
	return nil
}

func (s *NotificationService) logEmail(n Notification, template string, msg *mailer.Message, err error) {
	logger := logging.GetGlobalLogger()

	from, to := "-", "-"
	if msg != nil {
		from = msg.From.Email
		if len(msg.To) > 0 {
			to = msg.To[0].Email
		}
	}

	if err != nil {
		logger.Error("[%s] Email %s for app %s failed (from=%s to=%s): %v", n.RequestID, template, n.App.ID, from, to, err)
		return
	}
	logger.Info("[%s] Email %s for app %s sent (from=%s to=%s)", n.RequestID, template, n.App.ID, from, to)
}
