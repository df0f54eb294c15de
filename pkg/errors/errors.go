package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeHTTPStatus ErrorType = "http_status"
	ErrorTypeBrowser    ErrorType = "browser"
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeDownloader ErrorType = "downloader"
	ErrorTypeFilesystem ErrorType = "filesystem"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a classified failure with an optional cause
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without a cause
func New(t ErrorType, msg string) *Error {
	return &Error{Type: t, Message: msg}
}

// Wrap creates a typed error around an underlying cause
func Wrap(t ErrorType, msg string, err error) *Error {
	return &Error{Type: t, Message: msg, Err: err}
}

// HTTPStatus creates an error for a non-2xx response
func HTTPStatus(code int, url string) *Error {
	return &Error{
		Type:    ErrorTypeHTTPStatus,
		Message: fmt.Sprintf("unexpected status for %s", url),
		Code:    code,
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeBrowser:
		return true
	case ErrorTypeHTTPStatus, ErrorTypeNavigation, ErrorTypeDownloader,
		ErrorTypeFilesystem, ErrorTypeConfig:
		return false
	default:
		return false
	}
}

// IsSuccessStatus reports whether an HTTP status code is in the 2xx range
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
