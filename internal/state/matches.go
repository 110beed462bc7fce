package state

import (
	"uhc/internal/api"
	"uhc/internal/domain"
)

// MatchesState holds the upcoming listings and one host's history.
type MatchesState struct {
	Upcoming []domain.Match
	Loading  bool
	Error    string

	History        []domain.Match
	HistoryHost    string
	HistoryLoading bool
	HistoryEnd     bool
}

// RemovalParams identifies a match removal: the match, the reason, and
// the acting moderator for the optimistic update.
type RemovalParams struct {
	ID       int64
	Reason   string
	Username string
}

// ApprovalParams identifies a match approval.
type ApprovalParams struct {
	ID       int64
	Username string
}

// HistoryParams pages a host's past matches backwards from Before.
type HistoryParams struct {
	Host   string
	Before int64
}

// Match operations.
var (
	FetchUpcoming = NewAsync[struct{}, []domain.Match]("matches/fetchUpcoming")
	RemoveMatch   = NewAsync[RemovalParams, struct{}]("matches/remove")
	ApproveMatch  = NewAsync[ApprovalParams, domain.Match]("matches/approve")
	CreateMatch   = NewAsync[api.CreateMatchRequest, struct{}]("matches/create")
	FetchHistory  = NewAsync[HistoryParams, []domain.Match]("matches/fetchHistory")
)

var matchesReducer = func() *Reducer[MatchesState] {
	b := NewBuilder(MatchesState{})

	HandleAsync(b, FetchUpcoming.StartedType(), func(s MatchesState, _ AsyncPayload[struct{}, []domain.Match]) MatchesState {
		s.Loading = true
		s.Error = ""
		return s
	})
	HandleAsync(b, FetchUpcoming.SuccessType(), func(s MatchesState, p AsyncPayload[struct{}, []domain.Match]) MatchesState {
		s.Loading = false
		s.Upcoming = *p.Result
		return s
	})
	HandleAsync(b, FetchUpcoming.FailureType(), func(s MatchesState, p AsyncPayload[struct{}, []domain.Match]) MatchesState {
		s.Loading = false
		s.Error = api.UserMessage(p.Err)
		return s
	})

	// Removal is optimistic: started marks the match removed by the
	// acting moderator, failure rolls back to the pre-operation value.
	// Only non-removed matches can be removed, so the pre-operation
	// value is always the clean one.
	HandleAsync(b, RemoveMatch.StartedType(), func(s MatchesState, p AsyncPayload[RemovalParams, struct{}]) MatchesState {
		s.Upcoming = patchMatch(s.Upcoming, p.Params.ID, func(m domain.Match) domain.Match {
			m.Removed = true
			by := p.Params.Username
			reason := p.Params.Reason
			m.RemovedBy = &by
			m.RemovedReason = &reason
			return m
		})
		return s
	})
	HandleAsync(b, RemoveMatch.FailureType(), func(s MatchesState, p AsyncPayload[RemovalParams, struct{}]) MatchesState {
		s.Upcoming = patchMatch(s.Upcoming, p.Params.ID, func(m domain.Match) domain.Match {
			m.Removed = false
			m.RemovedBy = nil
			m.RemovedReason = nil
			return m
		})
		return s
	})

	// Approval is optimistic the same way; success replaces the entity
	// with the authoritative record.
	HandleAsync(b, ApproveMatch.StartedType(), func(s MatchesState, p AsyncPayload[ApprovalParams, domain.Match]) MatchesState {
		s.Upcoming = patchMatch(s.Upcoming, p.Params.ID, func(m domain.Match) domain.Match {
			by := p.Params.Username
			m.ApprovedBy = &by
			return m
		})
		return s
	})
	HandleAsync(b, ApproveMatch.SuccessType(), func(s MatchesState, p AsyncPayload[ApprovalParams, domain.Match]) MatchesState {
		s.Upcoming = patchMatch(s.Upcoming, p.Params.ID, func(domain.Match) domain.Match {
			return *p.Result
		})
		return s
	})
	HandleAsync(b, ApproveMatch.FailureType(), func(s MatchesState, p AsyncPayload[ApprovalParams, domain.Match]) MatchesState {
		s.Upcoming = patchMatch(s.Upcoming, p.Params.ID, func(m domain.Match) domain.Match {
			m.ApprovedBy = nil
			return m
		})
		return s
	})

	HandleAsync(b, FetchHistory.StartedType(), func(s MatchesState, p AsyncPayload[HistoryParams, []domain.Match]) MatchesState {
		if p.Params.Host != s.HistoryHost {
			s.History = nil
			s.HistoryHost = p.Params.Host
			s.HistoryEnd = false
		}
		s.HistoryLoading = true
		return s
	})
	HandleAsync(b, FetchHistory.SuccessType(), func(s MatchesState, p AsyncPayload[HistoryParams, []domain.Match]) MatchesState {
		s.HistoryLoading = false
		page := *p.Result
		if len(page) == 0 {
			s.HistoryEnd = true
			return s
		}
		s.History = append(append([]domain.Match{}, s.History...), page...)
		return s
	})
	HandleAsync(b, FetchHistory.FailureType(), func(s MatchesState, p AsyncPayload[HistoryParams, []domain.Match]) MatchesState {
		s.HistoryLoading = false
		return s
	})

	return b.MustBuild()
}()

// patchMatch returns a new list with the identified match transformed.
// The list and the entry are copied; previous state stays untouched.
func patchMatch(list []domain.Match, id int64, fn func(domain.Match) domain.Match) []domain.Match {
	out := make([]domain.Match, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i] = fn(out[i])
		}
	}
	return out
}
