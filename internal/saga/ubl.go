package saga

import (
	"fmt"

	"uhc/internal/domain"
	"uhc/internal/logger"
	"uhc/internal/state"
)

func (s *Sagas) fetchBans(c *Context, a state.Action) {
	p := state.FetchBans.Payload(a)
	if !c.Dispatch(state.FetchBans.Started(p.Params, nil)) {
		return
	}
	bans, err := s.api.CurrentBans(c.netCtx())
	if err != nil {
		c.Dispatch(state.FetchBans.Failure(p.Params, err))
		s.logoutOnAuthFailure(c, err)
		return
	}
	c.Dispatch(state.FetchBans.Success(p.Params, bans))
}

func (s *Sagas) searchBans(c *Context, a state.Action) {
	p := state.SearchBans.Payload(a)
	if !c.Dispatch(state.SearchBans.Started(p.Params, nil)) {
		return
	}
	bans, err := s.api.SearchBans(c.netCtx(), p.Params)
	if err != nil {
		c.Dispatch(state.SearchBans.Failure(p.Params, err))
		return
	}
	c.Dispatch(state.SearchBans.Success(p.Params, bans))
}

// createBan appends a provisional entry built from the request before
// the call resolves. The server assigns the real ID; success swaps the
// provisional entry for the stored record, failure restores the backup.
func (s *Sagas) createBan(c *Context, a state.Action) {
	params := state.CreateBan.Payload(a).Params
	optimistic := &domain.BanEntry{
		IGN:       params.IGN,
		UUID:      params.UUID,
		Reason:    params.Reason,
		Link:      params.Link,
		Created:   c.Now(),
		Expires:   params.Expires,
		CreatedBy: state.CurrentUsername(c.State()),
	}
	if !c.Dispatch(state.CreateBan.Started(params, optimistic)) {
		return
	}
	entry, err := s.api.CreateBan(c.netCtx(), params)
	s.recordModeration(c, logger.AuditActionBanCreate, "ubl/"+params.IGN, err, map[string]any{"reason": params.Reason})
	if err != nil {
		c.Dispatch(state.CreateBan.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.CreateBan.Success(params, *entry))
	notifySuccess(c, "Ban added to the UBL")
}

// editBan applies the edit to the list immediately; the reducer keeps
// a backup of the pre-edit list and restores it on failure. The
// optimistic entry overlays the request onto the current record so the
// server-owned fields survive the swap.
func (s *Sagas) editBan(c *Context, a state.Action) {
	params := state.EditBan.Payload(a).Params
	var optimistic *domain.BanEntry
	for _, ban := range c.State().UBL.Bans {
		if ban.ID == params.ID {
			edited := ban
			edited.IGN = params.Request.IGN
			edited.UUID = params.Request.UUID
			edited.Reason = params.Request.Reason
			edited.Link = params.Request.Link
			edited.Expires = params.Request.Expires
			optimistic = &edited
			break
		}
	}
	if !c.Dispatch(state.EditBan.Started(params, optimistic)) {
		return
	}
	entry, err := s.api.EditBan(c.netCtx(), params.ID, params.Request)
	s.recordModeration(c, logger.AuditActionBanEdit, fmt.Sprintf("ubl/%d", params.ID), err, nil)
	if err != nil {
		c.Dispatch(state.EditBan.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.EditBan.Success(params, *entry))
	notifySuccess(c, "Ban updated")
}

func (s *Sagas) deleteBan(c *Context, a state.Action) {
	params := state.DeleteBan.Payload(a).Params
	if !c.Dispatch(state.DeleteBan.Started(params, nil)) {
		return
	}
	err := s.api.DeleteBan(c.netCtx(), params.ID)
	s.recordModeration(c, logger.AuditActionBanDelete, fmt.Sprintf("ubl/%d", params.ID), err, nil)
	if err != nil {
		c.Dispatch(state.DeleteBan.Failure(params, err))
		s.failed(c, err)
		return
	}
	c.Dispatch(state.DeleteBan.Success(params, struct{}{}))
	notifySuccess(c, "Ban removed from the UBL")
}
