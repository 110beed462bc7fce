package saga

import (
	"fmt"

	"uhc/internal/domain"
	"uhc/internal/state"
)

// hostFormChanged turns form edits into conflict checks. An incomplete
// slot cancels any in-flight check and clears stale errors instead of
// querying: an abandoned check must not report against a slot the host
// has already cleared.
func (s *Sagas) hostFormChanged(c *Context, a state.Action) {
	p := state.HostFormChanged.Payload(a)
	if p.Region == "" || p.Opens.IsZero() {
		s.runner.CancelLatest(state.CheckConflicts.StartType())
		c.Dispatch(state.HostFormErrors.New(map[string]string{}))
		return
	}
	c.Dispatch(state.CheckConflicts.Start(p))
}

// checkConflicts validates the candidate slot against the server's
// listings. It runs take-latest: while the host is still editing, only
// the newest check may report.
func (s *Sagas) checkConflicts(c *Context, a state.Action) {
	params := state.CheckConflicts.Payload(a).Params
	if !c.Dispatch(state.CheckConflicts.Started(params, nil)) {
		return
	}
	existing, err := s.api.MatchConflicts(c.netCtx(), params.Region, params.Opens)
	if err != nil {
		c.Dispatch(state.CheckConflicts.Failure(params, err))
		return
	}

	candidate := domain.Match{
		Region:     params.Region,
		Opens:      params.Opens,
		Tournament: params.Tournament,
	}
	var conflicts []domain.Match
	for i := range existing {
		if candidate.ConflictsWith(&existing[i]) {
			conflicts = append(conflicts, existing[i])
		}
	}

	errs := map[string]string{}
	if len(conflicts) > 0 {
		msg := conflictMessage(conflicts)
		errs["opens"] = msg
		errs["region"] = msg
	}
	c.Dispatch(state.HostFormErrors.New(errs))
	c.Dispatch(state.CheckConflicts.Success(params, conflicts))
}

func conflictMessage(conflicts []domain.Match) string {
	first := conflicts[0]
	msg := fmt.Sprintf("Conflicts with %s's match #%d opening at the same time", first.Author, first.Count)
	if n := len(conflicts) - 1; n > 0 {
		msg = fmt.Sprintf("%s and %d more", msg, n)
	}
	return msg
}
