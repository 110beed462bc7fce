package saga

import (
	"fmt"

	"uhc/internal/logger"
	"uhc/internal/state"
)

func (s *Sagas) fetchAlerts(c *Context, a state.Action) {
	p := state.FetchAlerts.Payload(a)
	if !c.Dispatch(state.FetchAlerts.Started(p.Params, nil)) {
		return
	}
	rules, err := s.api.AlertRules(c.netCtx())
	if err != nil {
		c.Dispatch(state.FetchAlerts.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchAlerts.Success(p.Params, rules))
}

func (s *Sagas) createAlert(c *Context, a state.Action) {
	params := state.CreateAlert.Payload(a).Params
	if !c.Dispatch(state.CreateAlert.Started(params, nil)) {
		return
	}
	rule, err := s.api.CreateAlertRule(c.netCtx(), params)
	s.recordModeration(c, logger.AuditActionAlertCreate, "alert/"+string(params.Field), err, map[string]any{"alertOn": params.AlertOn, "exact": params.Exact})
	if err != nil {
		c.Dispatch(state.CreateAlert.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.CreateAlert.Success(params, *rule))
	notifySuccess(c, "Alert rule created")
}

// deleteAlert removes the rule from the list immediately; the reducer
// restores its backup on failure.
func (s *Sagas) deleteAlert(c *Context, a state.Action) {
	params := state.DeleteAlert.Payload(a).Params
	if !c.Dispatch(state.DeleteAlert.Started(params, nil)) {
		return
	}
	err := s.api.DeleteAlertRule(c.netCtx(), params.ID)
	s.recordModeration(c, logger.AuditActionAlertDelete, fmt.Sprintf("alert/%d", params.ID), err, nil)
	if err != nil {
		c.Dispatch(state.DeleteAlert.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.DeleteAlert.Success(params, struct{}{}))
	notifySuccess(c, "Alert rule deleted")
}
