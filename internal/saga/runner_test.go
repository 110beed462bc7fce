package saga

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"uhc/internal/logger"
	"uhc/internal/state"
)

var (
	latestOp = state.NewEvent[int]("runnertest/latest")
	everyOp  = state.NewEvent[int]("runnertest/every")
	markOp   = state.NewEvent[int]("runnertest/mark")
)

func TestTakeLatestCancelsStaleInstance(t *testing.T) {
	st := state.NewStore()
	r := NewRunner(st, logger.Default(), nil)

	hold := make(chan struct{})
	type result struct {
		n          int
		dispatched bool
	}
	results := make(chan result, 2)
	started := make(chan int, 2)

	r.TakeLatest(latestOp.Type(), func(c *Context, a state.Action) {
		n := latestOp.Payload(a)
		started <- n
		if n == 1 {
			<-hold
		}
		results <- result{n: n, dispatched: c.Dispatch(markOp.New(n))}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)

	st.Dispatch(latestOp.New(1))
	waitFor(t, "first instance", func() bool {
		select {
		case <-started:
			return true
		default:
			return false
		}
	})
	st.Dispatch(latestOp.New(2))

	second := <-results
	if second.n != 2 || !second.dispatched {
		t.Fatalf("superseding instance got %+v, want n=2 dispatched", second)
	}
	close(hold)
	first := <-results
	if first.n != 1 || first.dispatched {
		t.Fatalf("stale instance got %+v, want n=1 suppressed", first)
	}
}

func TestTakeEveryInstancesRunIndependently(t *testing.T) {
	st := state.NewStore()
	r := NewRunner(st, logger.Default(), nil)

	var dispatched atomic.Int32
	hold := make(chan struct{})
	r.TakeEvery(everyOp.Type(), func(c *Context, a state.Action) {
		<-hold
		if c.Dispatch(markOp.New(everyOp.Payload(a))) {
			dispatched.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)

	st.Dispatch(everyOp.New(1))
	st.Dispatch(everyOp.New(2))
	close(hold)

	waitFor(t, "both instances", func() bool {
		return dispatched.Load() == 2
	})
}

func TestActionsDispatchedBeforeRunAreHandled(t *testing.T) {
	st := state.NewStore()
	r := NewRunner(st, logger.Default(), nil)

	var handled atomic.Int32
	r.TakeEvery(everyOp.Type(), func(c *Context, a state.Action) {
		handled.Add(1)
	})

	// The runner loop is not running yet; the construction-time tap
	// must hold these until it is.
	st.Dispatch(everyOp.New(1))
	st.Dispatch(everyOp.New(2))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)

	waitFor(t, "queued actions handled", func() bool {
		return handled.Load() == 2
	})
}

func TestCancelLatestStopsInFlightInstance(t *testing.T) {
	st := state.NewStore()
	r := NewRunner(st, logger.Default(), nil)

	hold := make(chan struct{})
	dispatched := make(chan bool, 1)
	r.TakeLatest(latestOp.Type(), func(c *Context, a state.Action) {
		<-hold
		dispatched <- c.Dispatch(markOp.New(latestOp.Payload(a)))
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)

	st.Dispatch(latestOp.New(1))
	waitFor(t, "instance in flight", func() bool {
		r.mu.Lock()
		sub := r.latest[latestOp.Type()]
		r.mu.Unlock()
		sub.gate.Lock()
		defer sub.gate.Unlock()
		return sub.cancel != nil
	})

	r.CancelLatest(latestOp.Type())
	close(hold)

	if <-dispatched {
		t.Fatal("cancelled instance dispatched an action")
	}
}

func TestTapObservesDispatchOrder(t *testing.T) {
	st := state.NewStore()
	tap := st.Tap()

	for i := 0; i < 5; i++ {
		st.Dispatch(markOp.New(i))
	}
	for i := 0; i < 5; i++ {
		select {
		case a := <-tap:
			if got := markOp.Payload(a); got != i {
				t.Fatalf("action %d out of order, got payload %d", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("action %d never arrived on the tap", i)
		}
	}
}
