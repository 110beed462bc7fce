package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"uhc/internal/api"
)

func apiError(status int) error {
	return fmt.Errorf("call failed: %w", &api.Error{Status: status})
}

func TestFromAPI_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"unauthorized", apiError(http.StatusUnauthorized), CodeNotLoggedIn},
		{"forbidden", apiError(http.StatusForbidden), CodePermissionDenied},
		{"not found", apiError(http.StatusNotFound), CodeNotFound},
		{"bad data", apiError(http.StatusBadRequest), CodeValidation},
		{"server error", apiError(http.StatusInternalServerError), CodeUnknown},
		{"plain error", fmt.Errorf("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromAPI(tt.err); got.Code != tt.want {
				t.Errorf("FromAPI() code = %v, want %v", got.Code, tt.want)
			}
		})
	}
}

func TestFromAPI_PreservesRich(t *testing.T) {
	orig := New(CodeConfigInvalid, "bad config")
	if got := FromAPI(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("expected the original Rich error back, got %v", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, 2},
		{CodeNotLoggedIn, 3},
		{CodePermissionDenied, 4},
		{CodeNotFound, 5},
		{CodeUserCancelled, 130},
		{CodeUnknown, 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.code); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	err := New(CodeNotLoggedIn, "you are not logged in").
		WithSuggestions("run 'uhc login' with a fresh token pair")

	out := Display(err)
	if !strings.Contains(out, "NOT_LOGGED_IN") {
		t.Errorf("expected code in output, got %q", out)
	}
	if !strings.Contains(out, "hint: run 'uhc login'") {
		t.Errorf("expected suggestion in output, got %q", out)
	}
}
