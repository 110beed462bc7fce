package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"uhc/internal/api"
	"uhc/internal/localstore"
	"uhc/internal/state"
)

// session bundles the API client with the local store it reads tokens
// from. openSession refreshes an expired access token before returning,
// so one-shot commands never fail on a stale pair the way the
// long-running TUI handles it with its refresh loop.
type session struct {
	kv       *localstore.Store
	client   *api.Client
	username string
	access   string
}

func openSession(ctx context.Context) (*session, error) {
	kv, err := localstore.Open(cfg.LocalStorePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	s := &session{kv: kv}
	if v, ok, err := kv.Get(ctx, localstore.KeyAccessToken); err != nil {
		kv.Close()
		return nil, err
	} else if ok {
		s.access = v
	}

	opts := []api.Option{
		api.WithTokenSource(func() string { return s.access }),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
	}
	if cfg.API.Timeout > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
	}
	s.client = api.NewClient(cfg.API.BaseURL, opts...)

	if err := s.refreshIfStale(ctx); err != nil {
		log.Warn("token refresh failed", "error", err)
	}
	if c := state.DecodeClaims(s.access); c != nil {
		s.username = c.Username
	}
	return s, nil
}

// refreshIfStale exchanges the refresh token for a new pair when the
// access token is expired or undecodable. A dead refresh token clears
// the session instead of leaving broken credentials around.
func (s *session) refreshIfStale(ctx context.Context) error {
	if s.access == "" {
		return nil
	}
	now := time.Now()
	if c := state.DecodeClaims(s.access); c != nil && c.Expires.After(now) {
		return nil
	}

	refresh, ok, err := s.kv.Get(ctx, localstore.KeyRefreshToken)
	if err != nil || !ok {
		return err
	}
	if c := state.DecodeClaims(refresh); c == nil || !c.Expires.After(now) {
		return s.clearTokens(ctx)
	}

	pair, err := s.client.RefreshTokens(ctx, refresh)
	if err != nil {
		if api.IsNotAuthenticated(err) {
			return s.clearTokens(ctx)
		}
		return err
	}
	s.access = pair.AccessToken
	if err := s.kv.Set(ctx, localstore.KeyAccessToken, pair.AccessToken); err != nil {
		return err
	}
	return s.kv.Set(ctx, localstore.KeyRefreshToken, pair.RefreshToken)
}

func (s *session) clearTokens(ctx context.Context) error {
	s.access = ""
	if err := s.kv.Delete(ctx, localstore.KeyAccessToken); err != nil {
		return err
	}
	return s.kv.Delete(ctx, localstore.KeyRefreshToken)
}

// requireLogin guards commands that hit authenticated endpoints.
func (s *session) requireLogin() error {
	if s.username == "" {
		return fmt.Errorf("not logged in; run 'uhc login' first")
	}
	return nil
}

func (s *session) Close() error {
	return s.kv.Close()
}

// displayLocation resolves the configured timezone for table output.
// Local time when nothing is stored, UTC when the stored zone is bad.
func displayLocation(ctx context.Context, kv *localstore.Store) *time.Location {
	tz, ok, err := kv.Get(ctx, localstore.KeyTimezone)
	if err != nil || !ok || tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
