package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuth             = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Download coordination errors
	ErrBusy = fmt.Errorf("a download job is already in progress")

	// Transport and backend errors
	ErrConnectivity       = fmt.Errorf("connection failed")
	ErrBackend            = fmt.Errorf("server reported an error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// BackendError carries a well-formed error payload returned by the server.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

func (e *BackendError) Unwrap() error { return ErrBackend }

// UserMessage derives a human-readable message for err, preferring a
// structured backend message, then a generic transport message, then a
// generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}
	if errors.Is(err, ErrConnectivity) {
		return "Connection to the server failed."
	}
	return "Something went wrong while processing the request."
}
