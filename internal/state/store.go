package state

import (
	"sync"
)

// Root is the whole application state tree. Each slice is independently
// owned by its reducer; cross-slice reads happen only through selectors.
type Root struct {
	Auth        AuthState
	Matches     MatchesState
	HostForm    HostFormState
	UBL         UBLState
	Permissions PermissionsState
	Alerts      AlertsState
	Rules       RulesState
	Settings    SettingsState
	TimeSync    TimeSyncState
	Toasts      ToastsState
}

// newRoot assembles the initial tree from each reducer's declared
// initial value.
func newRoot() Root {
	return Root{
		Auth:        authReducer.Initial(),
		Matches:     matchesReducer.Initial(),
		HostForm:    hostFormReducer.Initial(),
		UBL:         ublReducer.Initial(),
		Permissions: permissionsReducer.Initial(),
		Alerts:      alertsReducer.Initial(),
		Rules:       rulesReducer.Initial(),
		Settings:    settingsReducer.Initial(),
		TimeSync:    timeSyncReducer.Initial(),
		Toasts:      toastsReducer.Initial(),
	}
}

// reduceRoot applies every slice reducer. A slice with no handler for
// the action keeps its previous value.
func reduceRoot(r Root, a Action) Root {
	r.Auth = authReducer.Reduce(r.Auth, a)
	r.Matches = matchesReducer.Reduce(r.Matches, a)
	r.HostForm = hostFormReducer.Reduce(r.HostForm, a)
	r.UBL = ublReducer.Reduce(r.UBL, a)
	r.Permissions = permissionsReducer.Reduce(r.Permissions, a)
	r.Alerts = alertsReducer.Reduce(r.Alerts, a)
	r.Rules = rulesReducer.Reduce(r.Rules, a)
	r.Settings = settingsReducer.Reduce(r.Settings, a)
	r.TimeSync = timeSyncReducer.Reduce(r.TimeSync, a)
	r.Toasts = toastsReducer.Reduce(r.Toasts, a)
	return r
}

// Store is the single shared mutable resource: the state tree plus the
// dispatch channel that mediates every mutation. Dispatches are
// serialized; reducers observe actions in dispatch order.
type Store struct {
	mu    sync.Mutex
	state Root

	subsMu sync.Mutex
	subs   map[int]func(Root)
	nextID int

	taps []*mailbox
}

// NewStore creates a store with every slice at its initial value.
func NewStore() *Store {
	return &Store{
		state: newRoot(),
		subs:  map[int]func(Root){},
	}
}

// State returns a snapshot of the current tree. Root is a value type,
// so callers cannot mutate store state through it.
func (s *Store) State() Root {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs the action through every slice reducer, then notifies
// subscribers and action taps. Dispatch is safe for concurrent use;
// the action order observed by reducers, subscribers and taps is the
// serialization order.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = reduceRoot(s.state, a)
	next := s.state
	for _, tap := range s.taps {
		tap.put(a)
	}
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := make([]func(Root), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers a state-change callback and returns an
// unsubscribe function. Callbacks run on the dispatching goroutine and
// must not block.
func (s *Store) Subscribe(fn func(Root)) func() {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()
	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// Tap returns a channel observing every dispatched action in dispatch
// order. The channel is backed by an unbounded queue so Dispatch never
// blocks on a slow consumer. The saga runner is the intended consumer.
func (s *Store) Tap() <-chan Action {
	mb := newMailbox()
	s.mu.Lock()
	s.taps = append(s.taps, mb)
	s.mu.Unlock()
	return mb.out
}

// mailbox is an unbounded action queue with a pump goroutine feeding a
// channel.
type mailbox struct {
	mu      sync.Mutex
	pending []Action
	signal  chan struct{}
	out     chan Action
}

func newMailbox() *mailbox {
	mb := &mailbox{
		signal: make(chan struct{}, 1),
		out:    make(chan Action),
	}
	go mb.pump()
	return mb
}

func (mb *mailbox) put(a Action) {
	mb.mu.Lock()
	mb.pending = append(mb.pending, a)
	mb.mu.Unlock()
	select {
	case mb.signal <- struct{}{}:
	default:
	}
}

func (mb *mailbox) pump() {
	for range mb.signal {
		for {
			mb.mu.Lock()
			if len(mb.pending) == 0 {
				mb.mu.Unlock()
				break
			}
			a := mb.pending[0]
			mb.pending = mb.pending[1:]
			mb.mu.Unlock()
			mb.out <- a
		}
	}
}
