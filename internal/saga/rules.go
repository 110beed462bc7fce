package saga

import (
	"uhc/internal/logger"
	"uhc/internal/state"
)

func (s *Sagas) fetchRules(c *Context, a state.Action) {
	p := state.FetchRules.Payload(a)
	if !c.Dispatch(state.FetchRules.Started(p.Params, nil)) {
		return
	}
	doc, err := s.api.Rules(c.netCtx())
	if err != nil {
		c.Dispatch(state.FetchRules.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchRules.Success(p.Params, *doc))
}

func (s *Sagas) saveRules(c *Context, a state.Action) {
	params := state.SaveRules.Payload(a).Params
	if !c.Dispatch(state.SaveRules.Started(params, nil)) {
		return
	}
	err := s.api.SaveRules(c.netCtx(), params)
	s.recordModeration(c, logger.AuditActionRulesSave, "rules", err, nil)
	if err != nil {
		c.Dispatch(state.SaveRules.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.SaveRules.Success(params, struct{}{}))
	notifySuccess(c, "Rules saved")
}
