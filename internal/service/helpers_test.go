package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/templates"
	"github.com/osa911/formrelay/internal/tenant"

	"github.com/stretchr/testify/require"
)

// recordingTransport keeps every message it is asked to send
type recordingTransport struct {
	mu   sync.Mutex
	sent []*mailer.Message
	err  error
}

func (r *recordingTransport) Send(_ context.Context, msg *mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingTransport) messages() []*mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*mailer.Message(nil), r.sent...)
}

// webhookSink is a fake chat webhook endpoint
type webhookSink struct {
	mu       sync.Mutex
	payloads []map[string]interface{}
	status   int
	server   *httptest.Server
}

func newWebhookSink(t *testing.T, status int) *webhookSink {
	t.Helper()
	sink := &webhookSink{status: status}
	sink.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)

		sink.mu.Lock()
		sink.payloads = append(sink.payloads, payload)
		sink.mu.Unlock()

		w.WriteHeader(sink.status)
		if sink.status >= 300 {
			_, _ = w.Write([]byte(`{"message":"Unknown Webhook"}`))
		}
	}))
	t.Cleanup(sink.server.Close)
	return sink
}

func (s *webhookSink) received() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.payloads...)
}

func newTestMailService(t *testing.T, apps []tenant.App, transport mailer.Transport) (*MailService, *tenant.Registry) {
	t.Helper()

	registry, err := tenant.NewRegistry(apps, []tenant.Transporter{{
		ID:     "main",
		Driver: tenant.DriverSMTP,
		Host:   "smtp.example.com",
		Auth:   tenant.SMTPAuth{User: "relay@example.com", Pass: "secret"},
	}})
	require.NoError(t, err)

	localizer, err := i18n.New("en")
	require.NoError(t, err)

	pool := mailer.NewStaticPool(map[string]mailer.Transport{"main": transport})
	return NewMailService(registry, pool, templates.NewRenderer(""), localizer), registry
}

func testSubmission() contact.Submission {
	return contact.Submission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.org",
		Subject: "Engines",
		Message: "Hello from the analytical engine",
	}
}
