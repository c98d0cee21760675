// Package ratelimit counts requests per client key within a rolling window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Store records a request for key and decides whether it may proceed.
type Store interface {
	Take(ctx context.Context, key string) (Decision, error)
}

// Config bounds requests to Max per Window for each key.
type Config struct {
	Window time.Duration
	Max    int
}
