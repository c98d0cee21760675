package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/api/sanitization"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Chat embed limits
const (
	maxUsernameLength    = 80
	maxDescriptionLength = 4096
	maxFieldValueLength  = 1024
	maxErrorBodyLength   = 2048
)

// Outbound pacing per webhook URL. Chat services throttle a single hook to
// a handful of posts every few seconds.
const (
	webhookRate  = rate.Limit(2)
	webhookBurst = 5
)

// WebhookService posts contact messages to chat webhooks
type WebhookService struct {
	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewWebhookService creates a new webhook service. A nil client gets a
// traced client with a 10 second timeout.
func NewWebhookService(client *http.Client) *WebhookService {
	if client == nil {
		client = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &WebhookService{
		client:   client,
		limiters: make(map[string]*rate.Limiter),
		limit:    webhookRate,
		burst:    webhookBurst,
	}
}

// limiter returns the pacing limiter for url
func (s *WebhookService) limiter(url string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	lim, ok := s.limiters[url]
	if !ok {
		lim = rate.NewLimiter(s.limit, s.burst)
		s.limiters[url] = lim
	}
	return lim
}

// webhookMessage is the chat webhook payload
type webhookMessage struct {
	Content         string          `json:"content"`
	Username        string          `json:"username"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
	Embeds          []embed         `json:"embeds"`
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type embed struct {
	Description string       `json:"description"`
	Fields      []embedField `json:"fields"`
	Timestamp   string       `json:"timestamp"`
	Footer      embedFooter  `json:"footer"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// buildMessage lays the submission out as one embed
func (s *WebhookService) buildMessage(appName string, sub contact.Submission, date time.Time) webhookMessage {
	label := sanitization.Truncate(sanitization.SanitizeString(appName)+" contact form", maxUsernameLength)

	var fields []embedField
	if sub.Subject != "" {
		fields = append(fields, embedField{
			Name:   "Subject",
			Value:  sanitization.Truncate(sanitization.SanitizeString(sub.Subject), maxFieldValueLength),
			Inline: true,
		})
	}
	fields = append(fields,
		embedField{
			Name:   "Name",
			Value:  sanitization.Truncate(sanitization.SanitizeString(sub.Name), maxFieldValueLength),
			Inline: true,
		},
		embedField{
			Name:  "E-Mail",
			Value: sanitization.Truncate(sanitization.SanitizeEmail(sub.Email), maxFieldValueLength),
		},
	)

	return webhookMessage{
		Content:         "",
		Username:        label,
		AllowedMentions: allowedMentions{Parse: []string{}},
		Embeds: []embed{{
			Description: sanitization.Truncate(sanitization.SanitizeText(sub.Message), maxDescriptionLength),
			Fields:      fields,
			Timestamp:   date.UTC().Format(time.RFC3339),
			Footer:      embedFooter{Text: label},
		}},
	}
}

// SendContactMessage posts a submission to the webhook at url. The embed is
// stamped with date, the time the submission was received.
func (s *WebhookService) SendContactMessage(ctx context.Context, url, appName string, sub contact.Submission, date time.Time) error {
	if err := s.limiter(url).Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit wait failed: %w", err)
	}

	jsonData, err := json.Marshal(s.buildMessage(appName, sub, date))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return &WebhookStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// WebhookStatusError reports a non-2xx webhook answer
type WebhookStatusError struct {
	StatusCode int
	Body       string
}

func (e *WebhookStatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.StatusCode, e.Body)
}
