package saga

import (
	"uhc/internal/logger"
	"uhc/internal/state"
)

func (s *Sagas) fetchPermissions(c *Context, a state.Action) {
	p := state.FetchPermissions.Payload(a)
	if !c.Dispatch(state.FetchPermissions.Started(p.Params, nil)) {
		return
	}
	set, err := s.api.Permissions(c.netCtx())
	if err != nil {
		c.Dispatch(state.FetchPermissions.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchPermissions.Success(p.Params, set))
}

func (s *Sagas) fetchPermissionLog(c *Context, a state.Action) {
	p := state.FetchPermissionLog.Payload(a)
	if !c.Dispatch(state.FetchPermissionLog.Started(p.Params, nil)) {
		return
	}
	log, err := s.api.PermissionLog(c.netCtx())
	if err != nil {
		c.Dispatch(state.FetchPermissionLog.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchPermissionLog.Success(p.Params, log))
}

// addPermission is not optimistic: the authoritative map and log are
// refetched after the server confirms.
func (s *Sagas) addPermission(c *Context, a state.Action) {
	params := state.AddPermission.Payload(a).Params
	if !c.Dispatch(state.AddPermission.Started(params, nil)) {
		return
	}
	err := s.api.AddPermission(c.netCtx(), params.Username, params.Permission)
	s.recordModeration(c, logger.AuditActionPermissionAdd, "user/"+params.Username, err, map[string]any{"permission": params.Permission})
	if err != nil {
		c.Dispatch(state.AddPermission.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.AddPermission.Success(params, struct{}{}))
	notifySuccess(c, "Permission granted")
	c.Dispatch(state.FetchPermissions.Start(struct{}{}))
	c.Dispatch(state.FetchPermissionLog.Start(struct{}{}))
}

func (s *Sagas) removePermission(c *Context, a state.Action) {
	params := state.RemovePermission.Payload(a).Params
	if !c.Dispatch(state.RemovePermission.Started(params, nil)) {
		return
	}
	err := s.api.RemovePermission(c.netCtx(), params.Username, params.Permission)
	s.recordModeration(c, logger.AuditActionPermissionDrop, "user/"+params.Username, err, map[string]any{"permission": params.Permission})
	if err != nil {
		c.Dispatch(state.RemovePermission.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.RemovePermission.Success(params, struct{}{}))
	notifySuccess(c, "Permission revoked")
	c.Dispatch(state.FetchPermissions.Start(struct{}{}))
	c.Dispatch(state.FetchPermissionLog.Start(struct{}{}))
}
