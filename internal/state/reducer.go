package state

import "fmt"

// Transition is a pure state-transition function for one slice. It
// receives the previous slice value and the dispatched action and must
// return a complete new value.
type Transition[S any] func(S, Action) S

// Reducer is a built, immutable mapping from action types to
// transitions for one state slice.
type Reducer[S any] struct {
	initial  S
	handlers map[ActionType]Transition[S]
}

// Builder accumulates (action type, transition) registrations for one
// slice reducer.
type Builder[S any] struct {
	initial  S
	handlers map[ActionType]Transition[S]
	err      error
}

// NewBuilder starts a reducer builder with the slice's initial value.
func NewBuilder[S any](initial S) *Builder[S] {
	return &Builder[S]{
		initial:  initial,
		handlers: map[ActionType]Transition[S]{},
	}
}

// Handle registers a transition for an action type. Registering the
// same type twice is a configuration error surfaced at build time.
func (b *Builder[S]) Handle(t ActionType, fn Transition[S]) *Builder[S] {
	if _, dup := b.handlers[t]; dup {
		if b.err == nil {
			b.err = fmt.Errorf("state: duplicate handler for action type %q", t)
		}
		return b
	}
	b.handlers[t] = fn
	return b
}

// Build yields the reducer, or the first registration error.
func (b *Builder[S]) Build() (*Reducer[S], error) {
	if b.err != nil {
		return nil, b.err
	}
	handlers := make(map[ActionType]Transition[S], len(b.handlers))
	for t, fn := range b.handlers {
		handlers[t] = fn
	}
	return &Reducer[S]{initial: b.initial, handlers: handlers}, nil
}

// MustBuild is Build panicking on configuration errors. Reducers are
// assembled at process start, so misconfiguration fails fast, not at
// dispatch time.
func (b *Builder[S]) MustBuild() *Reducer[S] {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Initial returns the slice's declared initial value so the root store
// assembly can supply it without duplicating the literal.
func (r *Reducer[S]) Initial() S { return r.initial }

// Reduce applies the registered transition for the action's type. An
// unregistered type is the identity transition.
func (r *Reducer[S]) Reduce(s S, a Action) S {
	fn, ok := r.handlers[a.Type]
	if !ok {
		return s
	}
	return fn(s, a)
}

// HandleAsyncStarted and friends adapt a typed async-payload transition
// onto a Builder registration, so slice code never type-asserts
// payloads by hand.

// HandleAsync registers a transition for one action of an async family,
// decoding the typed payload.
func HandleAsync[S, P, R any](b *Builder[S], t ActionType, fn func(S, AsyncPayload[P, R]) S) *Builder[S] {
	return b.Handle(t, func(s S, a Action) S {
		return fn(s, a.Payload.(AsyncPayload[P, R]))
	})
}

// HandleEvent registers a transition for a plain event, decoding the
// typed payload.
func HandleEvent[S, P any](b *Builder[S], e Event[P], fn func(S, P) S) *Builder[S] {
	return b.Handle(e.Type(), func(s S, a Action) S {
		return fn(s, a.Payload.(P))
	})
}
