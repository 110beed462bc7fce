package saga

import (
	"context"
	"encoding/json"
	"strconv"

	"uhc/internal/api"
	"uhc/internal/localstore"
	"uhc/internal/logger"
	"uhc/internal/state"
)

// Local store keys. Each key is owned by exactly one concern; writes
// are last-write-wins.
const (
	keyAccessToken    = localstore.KeyAccessToken
	keyRefreshToken   = localstore.KeyRefreshToken
	keyDarkMode       = "isDarkMode"
	key12h            = "is12h"
	keyHideRemoved    = "hideRemoved"
	keyShowOwnRemoved = "showOwnRemoved"
	keyTimezone       = localstore.KeyTimezone
	keyLastHostForm   = "lastHostForm"
)

// Bootstrap seeds the auth and settings slices from the local store.
// It must complete before the first render so the UI never flashes
// defaults; the SettingsLoaded dispatch is what flips Loaded.
func (s *Sagas) Bootstrap(ctx context.Context) error {
	settings := state.DefaultSettings()
	if v, ok, err := s.kv.Get(ctx, keyDarkMode); err != nil {
		return err
	} else if ok {
		settings.IsDarkMode = parseBool(v, settings.IsDarkMode)
	}
	if v, ok, err := s.kv.Get(ctx, key12h); err != nil {
		return err
	} else if ok {
		settings.Is12h = parseBool(v, settings.Is12h)
	}
	if v, ok, err := s.kv.Get(ctx, keyHideRemoved); err != nil {
		return err
	} else if ok {
		settings.HideRemoved = parseBool(v, settings.HideRemoved)
	}
	if v, ok, err := s.kv.Get(ctx, keyShowOwnRemoved); err != nil {
		return err
	} else if ok {
		settings.ShowOwnRemoved = parseBool(v, settings.ShowOwnRemoved)
	}
	if v, ok, err := s.kv.Get(ctx, keyTimezone); err != nil {
		return err
	} else if ok && v != "" {
		settings.Timezone = v
	}
	s.store.Dispatch(state.SettingsLoaded.New(settings))

	access, _, err := s.kv.Get(ctx, keyAccessToken)
	if err != nil {
		return err
	}
	refresh, _, err := s.kv.Get(ctx, keyRefreshToken)
	if err != nil {
		return err
	}
	if access != "" && refresh != "" {
		s.store.Dispatch(state.AuthLogin.New(state.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
		}))
	}

	if raw, ok, err := s.kv.Get(ctx, keyLastHostForm); err != nil {
		return err
	} else if ok && raw != "" {
		var form api.CreateMatchRequest
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			s.log.Warn("discarding unreadable saved host form", "error", err)
			_ = s.kv.Delete(ctx, keyLastHostForm)
		} else {
			s.store.Dispatch(state.HostFormSaved.New(form))
		}
	}
	return nil
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// persistSettings writes the whole settings slice back after any
// settings action. Reducers have already applied the change when a
// worker runs, so the snapshot is the new value.
func (s *Sagas) persistSettings(c *Context, _ state.Action) {
	st := c.State().Settings
	set := func(key, value string) {
		if err := s.kv.Set(c.netCtx(), key, value); err != nil {
			c.Log().Warn("persisting setting failed", "key", key, "error", err)
		}
	}
	set(keyDarkMode, strconv.FormatBool(st.IsDarkMode))
	set(key12h, strconv.FormatBool(st.Is12h))
	set(keyHideRemoved, strconv.FormatBool(st.HideRemoved))
	set(keyShowOwnRemoved, strconv.FormatBool(st.ShowOwnRemoved))
	set(keyTimezone, st.Timezone)
}

func (s *Sagas) persistLogin(c *Context, a state.Action) {
	pair := state.AuthLogin.Payload(a)
	if err := s.kv.Set(c.netCtx(), keyAccessToken, pair.AccessToken); err != nil {
		c.Log().Warn("persisting access token failed", "error", err)
	}
	if err := s.kv.Set(c.netCtx(), keyRefreshToken, pair.RefreshToken); err != nil {
		c.Log().Warn("persisting refresh token failed", "error", err)
	}
	s.audit.LogSession(c.netCtx(), logger.AuditActionLogin, state.CurrentUsername(c.State()))
}

func (s *Sagas) persistLogout(c *Context, a state.Action) {
	if err := s.kv.Delete(c.netCtx(), keyAccessToken); err != nil {
		c.Log().Warn("clearing access token failed", "error", err)
	}
	if err := s.kv.Delete(c.netCtx(), keyRefreshToken); err != nil {
		c.Log().Warn("clearing refresh token failed", "error", err)
	}
	// The reducer has already cleared the tokens by the time this
	// worker runs, so the actor comes from the action itself.
	s.audit.LogSession(c.netCtx(), logger.AuditActionLogout, state.AuthLogout.Payload(a))
}

func (s *Sagas) persistHostForm(c *Context, a state.Action) {
	form := state.HostFormSaved.Payload(a)
	raw, err := json.Marshal(form)
	if err != nil {
		c.Log().Warn("encoding saved host form failed", "error", err)
		return
	}
	if err := s.kv.Set(c.netCtx(), keyLastHostForm, string(raw)); err != nil {
		c.Log().Warn("persisting saved host form failed", "error", err)
	}
}
