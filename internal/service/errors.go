package service

import "errors"

// Sentinel errors for service layer
var (
	// ErrNoTransporter is returned when an email is due but the app has no
	// usable transporter.
	ErrNoTransporter = errors.New("no mail transporter configured")
	// ErrNoRecipient is returned when an email has nobody to go to.
	ErrNoRecipient = errors.New("no recipient")
)
