package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/osa911/formrelay/internal/tenant"
)

// SMTPTransport submits messages to an SMTP relay. Secure transporters use
// implicit TLS, the others upgrade with STARTTLS when the server offers it.
type SMTPTransport struct {
	addr      string
	host      string
	secure    bool
	user      string
	pass      string
	tlsConfig *tls.Config
}

// NewSMTPTransport creates a transport for an smtp transporter.
func NewSMTPTransport(t *tenant.Transporter) *SMTPTransport {
	return &SMTPTransport{
		addr:      t.Addr(),
		host:      t.Host,
		secure:    t.Secure,
		user:      t.Auth.User,
		pass:      t.Auth.Pass,
		tlsConfig: &tls.Config{ServerName: t.Host, MinVersion: tls.VersionTLS12},
	}
}

// Send implements Transport.
func (s *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	raw, err := msg.Bytes()
	if err != nil {
		return err
	}

	c, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.addr, err)
	}
	defer c.Close()

	if deadline, ok := ctx.Deadline(); ok {
		timeout := time.Until(deadline)
		c.CommandTimeout = timeout
		c.SubmissionTimeout = timeout
	}

	if !s.secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(s.tlsConfig); err != nil {
				return fmt.Errorf("starttls failed: %w", err)
			}
		}
	}

	if s.user != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(sasl.NewPlainClient("", s.user, s.pass)); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
		}
	}

	if err := c.SendMail(msg.From.Email, msg.Recipients(), bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return c.Quit()
}

// dial connects within ctx. The context deadline also bounds the server
// greeting, which go-smtp only reads on the first command.
func (s *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}

	if s.secure {
		tlsConn := tls.Client(conn, s.tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		conn = tlsConn
	}
	return smtp.NewClient(conn), nil
}

// Addr returns the relay address.
func (s *SMTPTransport) Addr() string {
	return s.addr
}

