// Package state implements the client's single owned state tree: typed
// actions, pure reducers built from per-slice registrations, a dispatch
// store, and memoized selectors. All mutation flows through Dispatch;
// effect workers in the saga package only read state and dispatch.
package state

import (
	"fmt"
	"sync"
)

// ActionType is a globally unique action identifier.
type ActionType string

// Action is one dispatched event: a type tag plus its payload.
type Action struct {
	Type    ActionType
	Payload any
}

// registry guards global uniqueness of action identifiers. Registering
// the same identifier twice is a programming error and fails fast.
var registry = struct {
	mu    sync.Mutex
	types map[ActionType]struct{}
}{types: map[ActionType]struct{}{}}

func register(t ActionType) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.types[t]; exists {
		panic(fmt.Sprintf("state: action type %q registered twice", t))
	}
	registry.types[t] = struct{}{}
}

// Event is a plain single-action family carrying a payload of type P.
type Event[P any] struct {
	t ActionType
}

// NewEvent declares a plain action kind.
func NewEvent[P any](name string) Event[P] {
	t := ActionType(name)
	register(t)
	return Event[P]{t: t}
}

// Type returns the action identifier.
func (e Event[P]) Type() ActionType { return e.t }

// New builds an action carrying the payload.
func (e Event[P]) New(p P) Action {
	return Action{Type: e.t, Payload: p}
}

// Payload extracts the typed payload from an action of this kind.
func (e Event[P]) Payload(a Action) P {
	return a.Payload.(P)
}

// Flag is a UI-only open/close/toggle family with no network coupling.
type Flag struct {
	open   ActionType
	close  ActionType
	toggle ActionType
}

// NewFlag declares an open/close/toggle action family.
func NewFlag(name string) Flag {
	f := Flag{
		open:   ActionType(name + "/open"),
		close:  ActionType(name + "/close"),
		toggle: ActionType(name + "/toggle"),
	}
	register(f.open)
	register(f.close)
	register(f.toggle)
	return f
}

// Open, Close and Toggle build the family's actions. The payload names
// the flagged item so one family can serve keyed UI state.
func (f Flag) Open(key string) Action   { return Action{Type: f.open, Payload: key} }
func (f Flag) Close(key string) Action  { return Action{Type: f.close, Payload: key} }
func (f Flag) Toggle(key string) Action { return Action{Type: f.toggle, Payload: key} }

// OpenType, CloseType and ToggleType return the family's identifiers.
func (f Flag) OpenType() ActionType   { return f.open }
func (f Flag) CloseType() ActionType  { return f.close }
func (f Flag) ToggleType() ActionType { return f.toggle }

// AsyncPayload is the uniform payload for async action families. Params
// are always present. Result carries the optimistic value on started
// actions (nil when the operation has no optimistic update) and the
// authoritative value on success actions. Err is set on failure.
type AsyncPayload[P, R any] struct {
	Params P
	Result *R
	Err    error
}

// Async declares, for one asynchronous operation, the start / started /
// success / failure action family sharing a parameter type P and result
// type R.
type Async[P, R any] struct {
	start   ActionType
	started ActionType
	success ActionType
	failure ActionType
}

// NewAsync declares an async action family.
func NewAsync[P, R any](name string) Async[P, R] {
	a := Async[P, R]{
		start:   ActionType(name + "/start"),
		started: ActionType(name + "/started"),
		success: ActionType(name + "/success"),
		failure: ActionType(name + "/failure"),
	}
	register(a.start)
	register(a.started)
	register(a.success)
	register(a.failure)
	return a
}

// StartType, StartedType, SuccessType and FailureType return the
// family's identifiers.
func (a Async[P, R]) StartType() ActionType   { return a.start }
func (a Async[P, R]) StartedType() ActionType { return a.started }
func (a Async[P, R]) SuccessType() ActionType { return a.success }
func (a Async[P, R]) FailureType() ActionType { return a.failure }

// Start triggers the effect; fired by the UI.
func (a Async[P, R]) Start(params P) Action {
	return Action{Type: a.start, Payload: AsyncPayload[P, R]{Params: params}}
}

// Started is fired by the effect worker before the network call. The
// optimistic result, when non-nil, carries enough for the reducer to
// mutate the relevant entity ahead of server confirmation.
func (a Async[P, R]) Started(params P, optimistic *R) Action {
	return Action{Type: a.started, Payload: AsyncPayload[P, R]{Params: params, Result: optimistic}}
}

// Success is fired after the network call resolves with the
// authoritative result.
func (a Async[P, R]) Success(params P, result R) Action {
	return Action{Type: a.success, Payload: AsyncPayload[P, R]{Params: params, Result: &result}}
}

// Failure is fired after the network call rejects.
func (a Async[P, R]) Failure(params P, err error) Action {
	return Action{Type: a.failure, Payload: AsyncPayload[P, R]{Params: params, Err: err}}
}

// Payload extracts the typed payload from an action of this family.
func (a Async[P, R]) Payload(act Action) AsyncPayload[P, R] {
	return act.Payload.(AsyncPayload[P, R])
}
