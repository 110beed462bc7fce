package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"uhc/internal/logger"
	"uhc/internal/state"
)

func TestSyncDelaySchedule(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{9, 9 * time.Second},
		{10, 10 * time.Second},
		{15, 10 * time.Second},
	}
	for _, tc := range cases {
		if got := syncDelay(tc.attempt); got != tc.want {
			t.Errorf("syncDelay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestTimeSyncRetriesUntilSuccess(t *testing.T) {
	const failures = 3

	clk := newStepClock()
	serverTime := clk.now.Add(-30 * time.Second)
	fa := &fakeAPI{}
	fa.serverTimeFn = func() (time.Time, error) {
		if fa.read(&fa.serverTimeCalls) <= failures {
			return time.Time{}, errors.New("gateway timeout")
		}
		return serverTime, nil
	}

	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	r := startRunner(t, st, s, clk)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	r.Spawn(ctx, s.timeSyncLoop)

	var delays []time.Duration
	for i := 0; i < failures+1; i++ {
		d := <-clk.sleeps
		delays = append(delays, d)
		// Let the in-flight attempt resolve before the loop re-examines
		// the synced flag.
		attempt := i + 1
		waitFor(t, "sync attempt", func() bool {
			return fa.read(&fa.serverTimeCalls) >= attempt
		})
		clk.release <- struct{}{}
	}

	waitFor(t, "synced state", func() bool {
		return st.State().TimeSync.Synced
	})
	if got := fa.read(&fa.serverTimeCalls); got != failures+1 {
		t.Errorf("sync attempts = %d, want %d", got, failures+1)
	}
	for i := 1; i < len(delays); i++ {
		if delays[i] < delays[i-1] {
			t.Errorf("delay %v after %v, back-off must not decrease", delays[i], delays[i-1])
		}
	}
	for _, d := range delays {
		if d > maxSyncDelay {
			t.Errorf("delay %v exceeds the %v cap", d, maxSyncDelay)
		}
	}

	// The loop must stop issuing attempts once synced.
	select {
	case d := <-clk.sleeps:
		t.Errorf("unexpected sleep of %v after sync succeeded", d)
	case <-time.After(50 * time.Millisecond):
	}
	if got := st.State().TimeSync.Offset; got != 30*time.Second {
		t.Errorf("offset = %v, want 30s", got)
	}
}

func TestSyncTimeComputesOffset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fa := &fakeAPI{serverTimeFn: func() (time.Time, error) {
		return now.Add(-time.Minute), nil
	}}

	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	s.syncTime(testContext(st, fixedClock{now}), state.SyncTime.Start(struct{}{}))

	ts := st.State().TimeSync
	if !ts.Synced {
		t.Fatal("not synced after a successful attempt")
	}
	if ts.Offset != time.Minute {
		t.Errorf("offset = %v, want 1m", ts.Offset)
	}
}
