package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/formrelay/internal/tenant"
)

type receivedMail struct {
	from string
	to   []string
	data []byte
	user string
}

// testBackend is an in-process SMTP server recording every message.
type testBackend struct {
	mu       sync.Mutex
	messages []receivedMail
	user     string
	pass     string
}

func (b *testBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &testSession{backend: b}, nil
}

func (b *testBackend) received() []receivedMail {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]receivedMail(nil), b.messages...)
}

type testSession struct {
	backend *testBackend
	current receivedMail
}

func (s *testSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *testSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.backend.user || password != s.backend.pass {
			return errors.New("invalid credentials")
		}
		s.current.user = username
		return nil
	}), nil
}

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	s.current.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.current.to = append(s.current.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.current.data = data

	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.current)
	s.backend.mu.Unlock()
	return nil
}

func (s *testSession) Reset() {
	user := s.current.user
	s.current = receivedMail{user: user}
}

func (s *testSession) Logout() error { return nil }

func startSMTPServer(t *testing.T, be *testBackend) (string, int) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	host, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestSMTPTransportSend(t *testing.T) {
	be := &testBackend{user: "relay@example.com", pass: "secret"}
	host, port := startSMTPServer(t, be)

	transport := NewSMTPTransport(&tenant.Transporter{
		ID:     "main",
		Driver: tenant.DriverSMTP,
		Host:   host,
		Port:   port,
		Auth:   tenant.SMTPAuth{User: "relay@example.com", Pass: "secret"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, transport.Send(ctx, testMessage()))

	msgs := be.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, "relay@example.com", msgs[0].from)
	assert.Equal(t, []string{"admin@example.com"}, msgs[0].to)
	assert.Equal(t, "relay@example.com", msgs[0].user)
	assert.True(t, bytes.Contains(msgs[0].data, []byte("Subject: New message on Acme")))
}

func TestSMTPTransportRejectsBadCredentials(t *testing.T) {
	be := &testBackend{user: "relay@example.com", pass: "secret"}
	host, port := startSMTPServer(t, be)

	transport := NewSMTPTransport(&tenant.Transporter{
		ID:   "main",
		Host: host,
		Port: port,
		Auth: tenant.SMTPAuth{User: "relay@example.com", Pass: "wrong"},
	})

	err := transport.Send(context.Background(), testMessage())
	assert.Error(t, err)
	assert.Empty(t, be.received())
}

func TestSMTPTransportConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	transport := NewSMTPTransport(&tenant.Transporter{ID: "main", Host: "127.0.0.1", Port: addr.Port})
	assert.Error(t, transport.Send(context.Background(), testMessage()))
}

func TestSMTPTransportSilentServerTimesOut(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	// accept and never send a greeting
	conns := make(chan net.Conn, 4)
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				close(conns)
				return
			}
			conns <- conn
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		for conn := range conns {
			_ = conn.Close()
		}
	})

	addr := l.Addr().(*net.TCPAddr)
	transport := NewSMTPTransport(&tenant.Transporter{ID: "main", Host: "127.0.0.1", Port: addr.Port})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.Error(t, transport.Send(ctx, testMessage()))
	assert.Less(t, time.Since(start), 3*time.Second)
}
