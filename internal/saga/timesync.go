package saga

import (
	"time"

	"uhc/internal/state"
)

const maxSyncDelay = 10 * time.Second

// syncDelay is the back-off before retrying attempt+1: one second per
// failed attempt, capped.
func syncDelay(attempt int) time.Duration {
	d := time.Duration(attempt) * time.Second
	if d > maxSyncDelay {
		d = maxSyncDelay
	}
	return d
}

// timeSyncLoop drives the startup clock sync: it dispatches sync
// starts with increasing back-off until one succeeds. Manual resyncs
// later just dispatch another start.
func (s *Sagas) timeSyncLoop(c *Context) {
	for attempt := 1; ; attempt++ {
		if !c.Dispatch(state.SyncTime.Start(struct{}{})) {
			return
		}
		if err := c.Sleep(syncDelay(attempt)); err != nil {
			return
		}
		if c.State().TimeSync.Synced {
			return
		}
	}
}

// syncTime measures the offset between the local clock and the
// server's, attributing half the round trip to each direction.
func (s *Sagas) syncTime(c *Context, a state.Action) {
	p := state.SyncTime.Payload(a)
	if !c.Dispatch(state.SyncTime.Started(p.Params, nil)) {
		return
	}
	before := c.Now()
	server, err := s.api.ServerTime(c.netCtx())
	if err != nil {
		c.Dispatch(state.SyncTime.Failure(p.Params, err))
		return
	}
	after := c.Now()
	midpoint := before.Add(after.Sub(before) / 2)
	c.Dispatch(state.SyncTime.Success(p.Params, midpoint.Sub(server)))
}
