package constants

// Context keys set by the middleware chain
const (
	// Request context keys
	ContextKeyRequestID = "RequestID"
	ContextKeyRawBody   = "rawBody"

	// Submission context keys
	ContextKeyApp            = "app"
	ContextKeyLocale         = "locale"
	ContextKeyContactRequest = "contactRequest"
)

// Response headers
const (
	HeaderRequestID          = "X-Request-ID"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRetryAfter         = "Retry-After"
)
