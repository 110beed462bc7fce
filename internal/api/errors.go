// Package api provides the HTTP client for the uhc hosting service.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common client errors
var (
	// ErrBadData indicates the server rejected the request payload (400).
	ErrBadData = errors.New("bad data")

	// ErrNotAuthenticated indicates the session is not authenticated (401).
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden indicates insufficient permissions (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource was not found (404).
	ErrNotFound = errors.New("not found")

	// ErrUnexpectedResponse indicates an unanticipated status code.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// Error wraps an API failure with the HTTP status and server message.
type Error struct {
	// Status is the HTTP status code of the response.
	Status int

	// Message is the server-provided message, when present. For 400
	// responses this is the validation text shown to the user verbatim.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.kind(), e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.kind(), e.Status)
}

// Unwrap maps the status onto the sentinel taxonomy so callers can use
// errors.Is.
func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	switch e.Status {
	case http.StatusBadRequest:
		return ErrBadData
	case http.StatusUnauthorized:
		return ErrNotAuthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUnexpectedResponse
	}
}

func (e *Error) kind() string {
	switch e.Status {
	case http.StatusBadRequest:
		return "bad data"
	case http.StatusUnauthorized:
		return "not authenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	default:
		return "unexpected response"
	}
}

// newStatusError builds an Error from a non-success response.
func newStatusError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// IsBadData returns true if the error is a 400 validation rejection.
func IsBadData(err error) bool {
	return errors.Is(err, ErrBadData)
}

// IsNotAuthenticated returns true if the error indicates a missing or
// expired session.
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// IsForbidden returns true if the error indicates lost permissions.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthFailure returns true for errors that must force a logout:
// the session is unauthenticated or its permissions were revoked.
func IsAuthFailure(err error) bool {
	return IsNotAuthenticated(err) || IsForbidden(err)
}

// UserMessage returns the text to surface for an error: the server
// message for bad-data rejections, a generic line otherwise.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case IsNotAuthenticated(err):
		return "You are not logged in"
	case IsForbidden(err):
		return "You no longer have permission to do that"
	default:
		return "Something went wrong, please try again"
	}
}
