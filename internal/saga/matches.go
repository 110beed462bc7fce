package saga

import (
	"fmt"

	"uhc/internal/logger"
	"uhc/internal/state"
)

func (s *Sagas) fetchUpcoming(c *Context, a state.Action) {
	p := state.FetchUpcoming.Payload(a)
	if !c.Dispatch(state.FetchUpcoming.Started(p.Params, nil)) {
		return
	}
	matches, err := s.api.UpcomingMatches(c.netCtx())
	if err != nil {
		c.Dispatch(state.FetchUpcoming.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchUpcoming.Success(p.Params, matches))
}

func (s *Sagas) fetchHistory(c *Context, a state.Action) {
	p := state.FetchHistory.Payload(a)
	if !c.Dispatch(state.FetchHistory.Started(p.Params, nil)) {
		return
	}
	matches, err := s.api.HostMatches(c.netCtx(), p.Params.Host, p.Params.Before)
	if err != nil {
		c.Dispatch(state.FetchHistory.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchHistory.Success(p.Params, matches))
}

// removeMatch marks the match removed immediately with the acting
// moderator's name, then confirms with the server. The reducer rolls
// the optimistic flags back on failure.
func (s *Sagas) removeMatch(c *Context, a state.Action) {
	params := state.RemoveMatch.Payload(a).Params
	if params.Username == "" {
		params.Username = state.CurrentUsername(c.State())
	}
	if !c.Dispatch(state.RemoveMatch.Started(params, nil)) {
		return
	}
	err := s.api.RemoveMatch(c.netCtx(), params.ID, params.Reason)
	s.recordModeration(c, logger.AuditActionMatchRemove, fmt.Sprintf("match/%d", params.ID), err, map[string]any{"reason": params.Reason})
	if err != nil {
		c.Dispatch(state.RemoveMatch.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.RemoveMatch.Success(params, struct{}{}))
	notifySuccess(c, "Match removed")
}

func (s *Sagas) approveMatch(c *Context, a state.Action) {
	params := state.ApproveMatch.Payload(a).Params
	if params.Username == "" {
		params.Username = state.CurrentUsername(c.State())
	}
	if !c.Dispatch(state.ApproveMatch.Started(params, nil)) {
		return
	}
	m, err := s.api.ApproveMatch(c.netCtx(), params.ID)
	s.recordModeration(c, logger.AuditActionMatchApprove, fmt.Sprintf("match/%d", params.ID), err, nil)
	if err != nil {
		c.Dispatch(state.ApproveMatch.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.ApproveMatch.Success(params, *m))
	notifySuccess(c, "Match approved")
}

func (s *Sagas) createMatch(c *Context, a state.Action) {
	params := state.CreateMatch.Payload(a).Params
	if !c.Dispatch(state.CreateMatch.Started(params, nil)) {
		return
	}
	err := s.api.CreateMatch(c.netCtx(), params)
	s.recordModeration(c, logger.AuditActionMatchCreate, "match", err, map[string]any{"opens": params.Opens, "region": params.Region})
	if err != nil {
		c.Dispatch(state.CreateMatch.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.CreateMatch.Success(params, struct{}{}))
	// Keep the submitted values for the next session's prefill.
	c.Dispatch(state.HostFormSaved.New(params))
	notifySuccess(c, "Match posted")
	c.Dispatch(state.FetchUpcoming.Start(struct{}{}))
}
