// Package errors presents command failures to the terminal user.
//
// Errors carry a code for categorization, actionable suggestions, and
// an exit code so scripts can branch on the failure class. The API
// error taxonomy maps onto it in FromAPI.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uhc/internal/api"
)

// Code represents an error code for categorization.
type Code string

// Common error codes
const (
	CodeUnknown          Code = "UNKNOWN"
	CodeConfigInvalid    Code = "CONFIG_INVALID"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeNotLoggedIn      Code = "NOT_LOGGED_IN"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeUserCancelled    Code = "USER_CANCELLED"
)

// ExitCode maps a code onto the process exit status. Scripts banning
// players in bulk lean on these to distinguish "retry" from "give up".
func ExitCode(code Code) int {
	switch code {
	case CodeValidation, CodeConfigInvalid:
		return 2
	case CodeNotLoggedIn:
		return 3
	case CodePermissionDenied:
		return 4
	case CodeNotFound:
		return 5
	case CodeUserCancelled:
		return 130
	default:
		return 1
	}
}

// Rich is an enhanced error with additional context for display.
type Rich struct {
	// Code is a unique error code for categorization
	Code Code
	// Message is the user-friendly error message
	Message string
	// Suggestions are actionable items the user can try
	Suggestions []string
	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Rich) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Rich) Unwrap() error {
	return e.Cause
}

// New creates a new Rich error.
func New(code Code, message string) *Rich {
	return &Rich{Code: code, Message: message}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code Code, message string) *Rich {
	return &Rich{Code: code, Message: message, Cause: err}
}

// WithSuggestions adds actionable suggestions.
func (e *Rich) WithSuggestions(suggestions ...string) *Rich {
	e.Suggestions = suggestions
	return e
}

// AsRich converts an error to a Rich error if possible.
func AsRich(err error) *Rich {
	var rich *Rich
	if errors.As(err, &rich) {
		return rich
	}
	return nil
}

// FromAPI classifies an error for display, mapping the client error
// taxonomy onto codes and suggestions. Non-API errors pass through
// unless already Rich.
func FromAPI(err error) *Rich {
	if rich := AsRich(err); rich != nil {
		return rich
	}
	switch {
	case errors.Is(err, context.Canceled):
		return Wrap(err, CodeUserCancelled, "operation cancelled")
	case api.IsNotAuthenticated(err):
		return Wrap(err, CodeNotLoggedIn, "you are not logged in").
			WithSuggestions("run 'uhc login' with a fresh token pair")
	case api.IsForbidden(err):
		return Wrap(err, CodePermissionDenied, "you no longer have permission to do that").
			WithSuggestions("check 'uhc perms list' for your current permissions")
	case api.IsNotFound(err):
		return Wrap(err, CodeNotFound, "no such resource")
	case api.IsBadData(err):
		return Wrap(err, CodeValidation, api.UserMessage(err))
	default:
		return Wrap(err, CodeUnknown, err.Error())
	}
}

// Display formats an error for terminal output.
func Display(err error) string {
	rich := AsRich(err)
	if rich == nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Error [%s]: %s\n", rich.Code, rich.Message))

	if rich.Cause != nil {
		b.WriteString(fmt.Sprintf("  caused by: %v\n", rich.Cause))
	}
	for _, s := range rich.Suggestions {
		b.WriteString(fmt.Sprintf("  hint: %s\n", s))
	}
	return b.String()
}
