package state

import (
	"time"

	"uhc/internal/api"
	"uhc/internal/domain"
)

// HostFormState tracks the match-creation form's server-dependent
// validation: the overhost conflict check and the saved values used to
// prefill the next session's form. Immediate field validation lives in
// the form itself; only validation requiring a network round trip is
// recorded here.
type HostFormState struct {
	// AsyncErrors maps field names ("opens", "region") to conflict
	// messages from the latest completed check.
	AsyncErrors map[string]string

	// Checking is true while a conflict check is in flight.
	Checking bool

	// Saved is the last submitted form, prefilled across sessions.
	Saved *api.CreateMatchRequest
}

// ConflictParams is the slot a candidate match wants to occupy.
type ConflictParams struct {
	Region     string
	Opens      time.Time
	Tournament bool
}

// Host form actions. HostFormChanged fires on every edit of the
// region/opens/tournament fields and triggers the take-latest conflict
// check. HostFormErrors is dispatched by the conflict saga with the
// computed field errors.
var (
	HostFormChanged = NewEvent[ConflictParams]("hostform/changed")
	HostFormErrors  = NewEvent[map[string]string]("hostform/errors")
	HostFormSaved   = NewEvent[api.CreateMatchRequest]("hostform/saved")

	CheckConflicts = NewAsync[ConflictParams, []domain.Match]("hostform/conflicts")
)

var hostFormReducer = func() *Reducer[HostFormState] {
	b := NewBuilder(HostFormState{AsyncErrors: map[string]string{}})

	HandleAsync(b, CheckConflicts.StartedType(), func(s HostFormState, _ AsyncPayload[ConflictParams, []domain.Match]) HostFormState {
		s.Checking = true
		return s
	})
	HandleAsync(b, CheckConflicts.SuccessType(), func(s HostFormState, _ AsyncPayload[ConflictParams, []domain.Match]) HostFormState {
		s.Checking = false
		return s
	})
	HandleAsync(b, CheckConflicts.FailureType(), func(s HostFormState, _ AsyncPayload[ConflictParams, []domain.Match]) HostFormState {
		s.Checking = false
		return s
	})

	// An errors report is terminal for the current check, whether it
	// completed or was abandoned for an incomplete slot.
	HandleEvent(b, HostFormErrors, func(s HostFormState, errs map[string]string) HostFormState {
		s.AsyncErrors = errs
		s.Checking = false
		return s
	})
	HandleEvent(b, HostFormSaved, func(s HostFormState, req api.CreateMatchRequest) HostFormState {
		s.Saved = &req
		return s
	})

	return b.MustBuild()
}()
