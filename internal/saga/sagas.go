package saga

import (
	"context"

	"uhc/internal/api"
	"uhc/internal/logger"
	"uhc/internal/state"
)

// Sagas bundles the effect workers with their collaborators: the HTTP
// client and the local key-value store.
type Sagas struct {
	api    API
	kv     KV
	store  *state.Store
	log    *logger.Logger
	audit  *logger.AuditLogger
	runner *Runner
}

// New builds the saga set.
func New(client API, kv KV, store *state.Store, log *logger.Logger) *Sagas {
	if log == nil {
		log = logger.Default()
	}
	return &Sagas{api: client, kv: kv, store: store, log: log}
}

// WithAudit attaches the local moderation trail. Without it, audit
// calls are no-ops.
func (s *Sagas) WithAudit(a *logger.AuditLogger) *Sagas {
	s.audit = a
	return s
}

// Register binds every worker to its start action under the
// subscription discipline the operation needs. Queries supersede
// themselves; mutations run independently.
func (s *Sagas) Register(r *Runner) {
	s.runner = r

	r.TakeLatest(state.FetchUpcoming.StartType(), s.fetchUpcoming)
	r.TakeLatest(state.FetchHistory.StartType(), s.fetchHistory)
	r.TakeEvery(state.RemoveMatch.StartType(), s.removeMatch)
	r.TakeEvery(state.ApproveMatch.StartType(), s.approveMatch)
	r.TakeEvery(state.CreateMatch.StartType(), s.createMatch)

	r.TakeLatest(state.FetchBans.StartType(), s.fetchBans)
	r.TakeLatest(state.SearchBans.StartType(), s.searchBans)
	r.TakeEvery(state.CreateBan.StartType(), s.createBan)
	r.TakeEvery(state.EditBan.StartType(), s.editBan)
	r.TakeEvery(state.DeleteBan.StartType(), s.deleteBan)

	r.TakeLatest(state.FetchPermissions.StartType(), s.fetchPermissions)
	r.TakeLatest(state.FetchPermissionLog.StartType(), s.fetchPermissionLog)
	r.TakeEvery(state.AddPermission.StartType(), s.addPermission)
	r.TakeEvery(state.RemovePermission.StartType(), s.removePermission)

	r.TakeLatest(state.FetchAlerts.StartType(), s.fetchAlerts)
	r.TakeEvery(state.CreateAlert.StartType(), s.createAlert)
	r.TakeEvery(state.DeleteAlert.StartType(), s.deleteAlert)

	r.TakeLatest(state.FetchRules.StartType(), s.fetchRules)
	r.TakeEvery(state.SaveRules.StartType(), s.saveRules)

	r.TakeEvery(state.HostFormChanged.Type(), s.hostFormChanged)
	r.TakeLatest(state.CheckConflicts.StartType(), s.checkConflicts)

	r.TakeLatest(state.SyncTime.StartType(), s.syncTime)

	r.TakeEvery(state.ToggleDarkMode.Type(), s.persistSettings)
	r.TakeEvery(state.Toggle12h.Type(), s.persistSettings)
	r.TakeEvery(state.ToggleHideRemoved.Type(), s.persistSettings)
	r.TakeEvery(state.ToggleShowOwnRemoved.Type(), s.persistSettings)
	r.TakeEvery(state.SetTimezone.Type(), s.persistSettings)
	r.TakeEvery(state.AuthLogin.Type(), s.persistLogin)
	r.TakeEvery(state.AuthLogout.Type(), s.persistLogout)
	r.TakeEvery(state.HostFormSaved.Type(), s.persistHostForm)
}

// Start launches the long-lived loops. They run until ctx is cancelled.
func (s *Sagas) Start(ctx context.Context, r *Runner) {
	r.Spawn(ctx, s.refreshLoop)
	r.Spawn(ctx, s.timeSyncLoop)
}

// failed handles an operation rejection: it converts the error to a
// toast and forces logout when the session is no longer valid.
func (s *Sagas) failed(c *Context, err error) {
	c.Log().Warn("operation failed", "error", err)
	notifyError(c, err)
	s.logoutOnAuthFailure(c, err)
}

// recordModeration appends the action to the local moderation trail.
func (s *Sagas) recordModeration(c *Context, action logger.AuditAction, resource string, err error, metadata map[string]any) {
	outcome := logger.AuditOutcomeSuccess
	switch {
	case api.IsForbidden(err) || api.IsNotAuthenticated(err):
		outcome = logger.AuditOutcomeDenied
	case err != nil:
		outcome = logger.AuditOutcomeFailure
	}
	s.audit.LogModeration(c.netCtx(), action, state.CurrentUsername(c.State()), resource, outcome, metadata)
}

func (s *Sagas) logoutOnAuthFailure(c *Context, err error) {
	if !api.IsAuthFailure(err) {
		return
	}
	c.Log().Warn("session rejected by server, logging out")
	c.Dispatch(state.AuthLogout.New(state.CurrentUsername(c.State())))
}
