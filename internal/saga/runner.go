// Package saga runs the client's effect workers: goroutine coroutines
// that listen for start actions, call the API, and dispatch
// started/success/failure actions back into the store. Workers never
// mutate state directly; every mutation is a dispatch.
package saga

import (
	"context"
	"sync"
	"time"

	"uhc/internal/logger"
	"uhc/internal/state"
)

// Clock abstracts time for the periodic and backoff workers so tests
// can drive them without real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Context is the effect context handed to a worker instance. Dispatch
// is suppressed once the instance is cancelled: a superseded take-latest
// worker can never dispatch after its replacement started.
type Context struct {
	ctx   context.Context
	store *state.Store
	log   *logger.Logger
	clock Clock
	gate  *sync.Mutex
}

// Dispatch forwards an action to the store unless the worker has been
// cancelled. It reports whether the action was dispatched. For
// take-latest workers the cancellation check and the dispatch happen
// under the subscription's gate, so a stale instance can never land an
// action once its replacement has been started.
func (c *Context) Dispatch(a state.Action) bool {
	if c.gate != nil {
		c.gate.Lock()
		defer c.gate.Unlock()
	}
	if c.ctx.Err() != nil {
		return false
	}
	c.store.Dispatch(a)
	return true
}

// State reads a snapshot of the store.
func (c *Context) State() state.Root { return c.store.State() }

// Sleep waits for the duration or until cancellation.
func (c *Context) Sleep(d time.Duration) error { return c.clock.Sleep(c.ctx, d) }

// Now returns the clock's current time.
func (c *Context) Now() time.Time { return c.clock.Now() }

// Err returns the cancellation cause, nil while the worker may run.
func (c *Context) Err() error { return c.ctx.Err() }

// Done exposes the cancellation channel for select loops.
func (c *Context) Done() <-chan struct{} { return c.ctx.Done() }

// Log returns the runner's logger.
func (c *Context) Log() *logger.Logger { return c.log }

// netCtx returns the context to pass into API calls so in-flight
// requests are abandoned on cancellation.
func (c *Context) netCtx() context.Context { return c.ctx }

// Worker is one effect coroutine bound to an action type.
type Worker func(c *Context, action state.Action)

// latestSub is one take-latest subscription. The gate serializes
// cancelling the in-flight instance against that instance's pending
// dispatches.
type latestSub struct {
	worker Worker
	gate   sync.Mutex
	cancel context.CancelFunc
}

// Runner owns the worker goroutines and their subscription disciplines.
type Runner struct {
	store *state.Store
	log   *logger.Logger
	clock Clock
	tap   <-chan state.Action

	mu     sync.Mutex
	every  map[state.ActionType][]Worker
	latest map[state.ActionType]*latestSub

	wg sync.WaitGroup
}

// NewRunner creates a runner over the store. The runner taps the
// action stream immediately: anything dispatched between construction
// and Run queues on the tap instead of being lost.
func NewRunner(store *state.Store, log *logger.Logger, clock Clock) *Runner {
	if clock == nil {
		clock = RealClock()
	}
	return &Runner{
		store:  store,
		log:    log,
		clock:  clock,
		tap:    store.Tap(),
		every:  map[state.ActionType][]Worker{},
		latest: map[state.ActionType]*latestSub{},
	}
}

// TakeEvery runs an independent worker instance for every dispatched
// action of the type. Concurrent instances never cancel each other.
func (r *Runner) TakeEvery(t state.ActionType, w Worker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.every[t] = append(r.every[t], w)
}

// TakeLatest cancels any in-flight worker instance for the type before
// starting a new one. Only the most recent action's instance may
// dispatch.
func (r *Runner) TakeLatest(t state.ActionType, w Worker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest[t] = &latestSub{worker: w}
}

// Spawn starts a long-lived background worker (refresh loops, startup
// sync) bound to the runner's lifetime.
func (r *Runner) Spawn(ctx context.Context, fn func(*Context)) {
	c := &Context{ctx: ctx, store: r.store, log: r.log, clock: r.clock}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn(c)
	}()
}

// CancelLatest cancels the in-flight take-latest instance for the
// type, if any, without starting a replacement.
func (r *Runner) CancelLatest(t state.ActionType) {
	r.mu.Lock()
	sub := r.latest[t]
	r.mu.Unlock()
	if sub == nil {
		return
	}
	sub.gate.Lock()
	if sub.cancel != nil {
		sub.cancel()
		sub.cancel = nil
	}
	sub.gate.Unlock()
}

// Run consumes the tapped action stream until ctx is cancelled,
// spawning workers per their subscription discipline. Call it on its
// own goroutine; the tap was taken in NewRunner, so earlier dispatches
// are already queued and none are dropped.
func (r *Runner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-r.tap:
			r.handle(ctx, a)
		}
	}
}

func (r *Runner) handle(ctx context.Context, a state.Action) {
	r.mu.Lock()
	everyWorkers := r.every[a.Type]
	sub := r.latest[a.Type]
	r.mu.Unlock()

	for _, w := range everyWorkers {
		c := &Context{ctx: ctx, store: r.store, log: r.log, clock: r.clock}
		r.wg.Add(1)
		go func(w Worker) {
			defer r.wg.Done()
			w(c, a)
		}(w)
	}

	if sub != nil {
		// Cancel the stale instance under the gate: a dispatch the
		// stale instance already has in flight lands before the
		// cancel, and anything after it is suppressed.
		sub.gate.Lock()
		if sub.cancel != nil {
			sub.cancel()
		}
		workerCtx, cancel := context.WithCancel(ctx)
		sub.cancel = cancel
		sub.gate.Unlock()

		c := &Context{ctx: workerCtx, store: r.store, log: r.log, clock: r.clock, gate: &sub.gate}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			sub.worker(c, a)
		}()
	}
}

// Wait blocks until every spawned worker has returned.
func (r *Runner) Wait() { r.wg.Wait() }
