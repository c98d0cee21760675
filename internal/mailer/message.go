// Package mailer composes MIME messages and delivers them through the
// configured SMTP and Amazon SES transporters.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhillyerd/enmime/v2"
)

// ErrUnknownDriver is returned for transporters with an unsupported driver.
var ErrUnknownDriver = errors.New("unknown transporter driver")

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// Message is an email with an HTML body and its plain-text alternative.
type Message struct {
	From    Address
	To      []Address
	ReplyTo *Address
	Subject string
	Text    string
	HTML    string
	Date    time.Time
}

// Transport delivers composed messages.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// Recipients returns the bare recipient addresses.
func (m *Message) Recipients() []string {
	out := make([]string, 0, len(m.To))
	for _, a := range m.To {
		out = append(out, a.Email)
	}
	return out
}

// Bytes encodes the message as multipart/alternative MIME.
func (m *Message) Bytes() ([]byte, error) {
	if len(m.To) == 0 {
		return nil, errors.New("message has no recipient")
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	b := enmime.Builder().
		From(m.From.Name, m.From.Email).
		Subject(m.Subject).
		Date(date).
		Text([]byte(m.Text)).
		HTML([]byte(m.HTML))

	for _, to := range m.To {
		b = b.To(to.Name, to.Email)
	}
	if m.ReplyTo != nil {
		b = b.ReplyTo(m.ReplyTo.Name, m.ReplyTo.Email)
	}

	part, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}
