// Package tenant holds the static application ("app") and mail transporter
// definitions the relay serves, and resolves incoming requests to an app.
package tenant

import (
	"errors"
	"net"
	"strconv"
	"strings"
)

var (
	// ErrInvalidApp is returned when no app matches the requested id.
	ErrInvalidApp = errors.New("invalid application id")
	// ErrForbiddenDomain is returned when the app restricts domains and the
	// request host is missing or not listed.
	ErrForbiddenDomain = errors.New("cannot send via this domain")
)

// Transporter drivers
const (
	DriverSMTP = "smtp"
	DriverSES  = "ses"
)

// App is one configured consumer of the relay.
type App struct {
	ID      string   `yaml:"id" json:"id" validate:"required"`
	Name    string   `yaml:"name" json:"name"`
	Domains []string `yaml:"domains" json:"domains" validate:"omitempty,dive,apphost"`
	Email   string   `yaml:"email" json:"email" validate:"omitempty,email"`
	Webhook string   `yaml:"webhook" json:"webhook" validate:"omitempty,url"`
	// Discord is the historical name of Webhook.
	Discord string `yaml:"discord" json:"discord" validate:"omitempty,url"`
	SMTP    string `yaml:"smtp" json:"smtp"`
}

// DisplayName returns the app name, falling back to its id.
func (a *App) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// WebhookURL returns the chat webhook destination, if any.
func (a *App) WebhookURL() string {
	if a.Webhook != "" {
		return a.Webhook
	}
	return a.Discord
}

// RestrictsDomains reports whether the app carries a domain allow-list.
// An explicitly empty list forbids every host.
func (a *App) RestrictsDomains() bool {
	return a.Domains != nil
}

// AllowsHost reports whether a request carrying the given Host header may
// submit to this app. Listed domains match with or without the port.
func (a *App) AllowsHost(host string) bool {
	if !a.RestrictsDomains() {
		return true
	}
	if host == "" {
		return false
	}
	name := Hostname(host)
	for _, d := range a.Domains {
		if strings.EqualFold(d, host) || strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// Hostname strips the port from a Host header value.
func Hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// SMTPAuth carries the credentials of an SMTP transporter.
type SMTPAuth struct {
	User string `yaml:"user" json:"user"`
	Pass string `yaml:"pass" json:"pass"`
}

// Transporter is a configured mail sending identity.
type Transporter struct {
	ID     string `yaml:"id" json:"id" validate:"required"`
	Driver string `yaml:"driver" json:"driver" validate:"oneof=smtp ses"`

	// SMTP
	Host   string   `yaml:"host" json:"host" validate:"required_if=Driver smtp"`
	Port   int      `yaml:"port" json:"port" validate:"omitempty,min=1,max=65535"`
	Secure bool     `yaml:"secure" json:"secure"`
	Auth   SMTPAuth `yaml:"auth" json:"auth"`

	// SES
	Region    string `yaml:"region" json:"region" validate:"required_if=Driver ses"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	// From overrides the authenticated user as sender address.
	From string `yaml:"from" json:"from" validate:"omitempty,email"`
}

// SenderAddress is the address mail is sent from through this transporter.
func (t *Transporter) SenderAddress() string {
	if t.From != "" {
		return t.From
	}
	return t.Auth.User
}

// Addr returns host:port for SMTP transporters, defaulting the port from Secure.
func (t *Transporter) Addr() string {
	port := t.Port
	if port == 0 {
		if t.Secure {
			port = 465
		} else {
			port = 587
		}
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(port))
}

