package common

// APIResponse is the standard wrapper for all API responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []APIError  `json:"errors,omitempty"`
}

// APIError is one entry of the error list returned to the caller
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Define type for error codes to enforce consistency
type ErrorCode string

// Standard error codes
const (
	ErrCodeInvalidApp      ErrorCode = "invalid-app"
	ErrCodeForbiddenDomain ErrorCode = "forbidden-domain"
	ErrCodeTooManyRequests ErrorCode = "too-many-request"
	ErrCodeInvalidBody     ErrorCode = "invalid-body"
	ErrCodeBodyTooLarge    ErrorCode = "body-too-large"
	ErrCodeInternalServer  ErrorCode = "internal-error"

	// Field validation codes
	ErrCodeRequired     ErrorCode = "required"
	ErrCodeMinLength    ErrorCode = "min-length"
	ErrCodeMaxLength    ErrorCode = "max-length"
	ErrCodeInvalidEmail ErrorCode = "invalid-email"
)

// Fixed messages for the single-error responses
const (
	MessageInvalidApp      = "Invalid Application id"
	MessageForbiddenDomain = "Cannot send via this domain"
	MessageTooManyRequests = "Too many requests"
	MessageInvalidBody     = "Request body must be a JSON object"
	MessageBodyTooLarge    = "Request body is too large"
	MessageInternalServer  = "Internal server error"
)

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response holding a single error
func NewErrorResponse(code ErrorCode, message string) APIResponse {
	return APIResponse{
		Success: false,
		Errors:  []APIError{{Code: string(code), Message: message}},
	}
}

// NewErrorListResponse creates an error response holding every given error
func NewErrorListResponse(errs []APIError) APIResponse {
	return APIResponse{
		Success: false,
		Errors:  errs,
	}
}
