package tenant

import (
	"fmt"
)

// Registry is the immutable lookup table of apps and transporters.
type Registry struct {
	apps         map[string]*App
	transporters map[string]*Transporter
	appIDs       []string
	transportIDs []string
}

// NewRegistry indexes apps and transporters by id. Duplicate ids and app
// references to unknown transporters are rejected.
func NewRegistry(apps []App, transporters []Transporter) (*Registry, error) {
	r := &Registry{
		apps:         make(map[string]*App, len(apps)),
		transporters: make(map[string]*Transporter, len(transporters)),
	}

	for i := range transporters {
		t := transporters[i]
		if _, dup := r.transporters[t.ID]; dup {
			return nil, fmt.Errorf("duplicate transporter id %q", t.ID)
		}
		r.transporters[t.ID] = &t
		r.transportIDs = append(r.transportIDs, t.ID)
	}

	for i := range apps {
		a := apps[i]
		if _, dup := r.apps[a.ID]; dup {
			return nil, fmt.Errorf("duplicate app id %q", a.ID)
		}
		if a.SMTP != "" {
			if _, ok := r.transporters[a.SMTP]; !ok {
				return nil, fmt.Errorf("app %q references unknown transporter %q", a.ID, a.SMTP)
			}
		}
		r.apps[a.ID] = &a
		r.appIDs = append(r.appIDs, a.ID)
	}

	return r, nil
}

// App looks up an app by id.
func (r *Registry) App(id string) (*App, bool) {
	a, ok := r.apps[id]
	return a, ok
}

// Transporter looks up a transporter by id.
func (r *Registry) Transporter(id string) (*Transporter, bool) {
	t, ok := r.transporters[id]
	return t, ok
}

// Apps returns every app in file order.
func (r *Registry) Apps() []*App {
	out := make([]*App, 0, len(r.appIDs))
	for _, id := range r.appIDs {
		out = append(out, r.apps[id])
	}
	return out
}

// Transporters returns every transporter in file order.
func (r *Registry) Transporters() []*Transporter {
	out := make([]*Transporter, 0, len(r.transportIDs))
	for _, id := range r.transportIDs {
		out = append(out, r.transporters[id])
	}
	return out
}

// Resolve finds the app a submission targets and checks the request host
// against its domain allow-list.
func (r *Registry) Resolve(id, host string) (*App, error) {
	app, ok := r.App(id)
	if !ok {
		return nil, ErrInvalidApp
	}
	if !app.AllowsHost(host) {
		return nil, ErrForbiddenDomain
	}
	return app, nil
}
