package mailer

import (
	"context"
	"fmt"

	"github.com/osa911/formrelay/internal/tenant"
)

// Pool holds one transport per configured transporter. It is built once at
// startup and read-only afterwards.
type Pool struct {
	transports map[string]Transport
}

// NewPool builds a transport for every transporter of the registry.
func NewPool(ctx context.Context, registry *tenant.Registry) (*Pool, error) {
	p := &Pool{transports: make(map[string]Transport)}

	for _, t := range registry.Transporters() {
		transport, err := newTransport(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("transporter %s: %w", t.ID, err)
		}
		p.transports[t.ID] = transport
	}

	return p, nil
}

// NewStaticPool wraps prebuilt transports, keyed by transporter id.
func NewStaticPool(transports map[string]Transport) *Pool {
	p := &Pool{transports: make(map[string]Transport, len(transports))}
	for id, t := range transports {
		p.transports[id] = t
	}
	return p
}

func newTransport(ctx context.Context, t *tenant.Transporter) (Transport, error) {
	switch t.Driver {
	case tenant.DriverSMTP, "":
		return NewSMTPTransport(t), nil
	case tenant.DriverSES:
		return NewSESTransport(ctx, t)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, t.Driver)
	}
}

// Get returns the transport of a transporter.
func (p *Pool) Get(id string) (Transport, bool) {
	t, ok := p.transports[id]
	return t, ok
}

// Len returns the number of transports.
func (p *Pool) Len() int {
	return len(p.transports)
}
