package llm

import "fmt"

// ErrorType categorizes provider failures.
type ErrorType string

const (
	ErrInvalidRequest ErrorType = "invalid_request_error"
	ErrAuthentication ErrorType = "authentication_error"
	ErrRateLimit      ErrorType = "rate_limit_error"
	ErrOverloaded     ErrorType = "overloaded_error"
	ErrAPI            ErrorType = "api_error"
	ErrProvider       ErrorType = "provider_error"
)

// Error is a normalized provider error.
type Error struct {
	Type    ErrorType
	Message string
	Code    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("llm: %s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("llm: %s: %s", e.Type, e.Message)
}

// IsRetryable reports whether retrying the same request may succeed.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrRateLimit, ErrOverloaded, ErrAPI:
		return true
	default:
		return false
	}
}
