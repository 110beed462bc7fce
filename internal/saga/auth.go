package saga

import (
	"time"

	"uhc/internal/api"
	"uhc/internal/state"
)

const (
	// refreshInterval is how often the session is re-examined.
	refreshInterval = time.Minute

	// refreshWindow is the remaining validity below which a token is
	// treated as expiring.
	refreshWindow = 5 * time.Minute
)

// refreshLoop keeps the access token fresh for the lifetime of the
// session. It wakes every minute, refreshes when less than five
// minutes of validity remain, and forces logout when the refresh token
// itself is about to expire or the server rejects the refresh.
func (s *Sagas) refreshLoop(c *Context) {
	for {
		if err := c.Sleep(refreshInterval); err != nil {
			return
		}
		s.refreshOnce(c)
	}
}

func (s *Sagas) refreshOnce(c *Context) {
	st := c.State()
	if st.Auth.AccessToken == "" || st.Auth.RefreshToken == "" {
		return
	}
	now := c.Now()

	// An undecodable access token counts as expiring: refresh is the
	// only way to recover a usable one.
	access := state.AccessClaims(st)
	if access != nil && access.Expires.Sub(now) > refreshWindow {
		return
	}

	refresh := state.RefreshClaims(st)
	if refresh == nil || refresh.Expires.Sub(now) <= refreshWindow {
		c.Log().Warn("refresh token expiring, logging out")
		c.Dispatch(state.AuthLogout.New(state.CurrentUsername(st)))
		return
	}

	pair, err := s.api.RefreshTokens(c.netCtx(), st.Auth.RefreshToken)
	if err != nil {
		if api.IsAuthFailure(err) {
			c.Log().Warn("token refresh rejected, logging out", "error", err)
			c.Dispatch(state.AuthLogout.New(state.CurrentUsername(st)))
			return
		}
		// Transient failure, the next wakeup retries.
		c.Log().Warn("token refresh failed", "error", err)
		return
	}
	c.Dispatch(state.AuthLogin.New(state.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}))
}
