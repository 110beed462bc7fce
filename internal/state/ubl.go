package state

import (
	"uhc/internal/api"
	"uhc/internal/domain"
)

// UBLState holds the current ban list, search results, and the backup
// copy used to roll back optimistic list mutations.
type UBLState struct {
	Bans    []domain.BanEntry
	Loading bool
	Error   string

	// Backup is the pre-operation list, saved on every optimistic
	// mutation's started action and restored on failure.
	Backup []domain.BanEntry

	SearchQuery   string
	SearchResults []domain.BanEntry
	Searching     bool
}

// BanEditParams identifies an edit of an existing ban entry.
type BanEditParams struct {
	ID      int64
	Request api.BanRequest
}

// BanDeleteParams identifies a deletion.
type BanDeleteParams struct {
	ID int64
}

// UBL operations.
var (
	FetchBans  = NewAsync[struct{}, []domain.BanEntry]("ubl/fetch")
	SearchBans = NewAsync[string, []domain.BanEntry]("ubl/search")
	CreateBan  = NewAsync[api.BanRequest, domain.BanEntry]("ubl/create")
	EditBan    = NewAsync[BanEditParams, domain.BanEntry]("ubl/edit")
	DeleteBan  = NewAsync[BanDeleteParams, struct{}]("ubl/delete")
)

var ublReducer = func() *Reducer[UBLState] {
	b := NewBuilder(UBLState{})

	HandleAsync(b, FetchBans.StartedType(), func(s UBLState, _ AsyncPayload[struct{}, []domain.BanEntry]) UBLState {
		s.Loading = true
		s.Error = ""
		return s
	})
	HandleAsync(b, FetchBans.SuccessType(), func(s UBLState, p AsyncPayload[struct{}, []domain.BanEntry]) UBLState {
		s.Loading = false
		s.Bans = *p.Result
		return s
	})
	HandleAsync(b, FetchBans.FailureType(), func(s UBLState, p AsyncPayload[struct{}, []domain.BanEntry]) UBLState {
		s.Loading = false
		s.Error = api.UserMessage(p.Err)
		return s
	})

	HandleAsync(b, SearchBans.StartedType(), func(s UBLState, p AsyncPayload[string, []domain.BanEntry]) UBLState {
		s.Searching = true
		s.SearchQuery = p.Params
		return s
	})
	HandleAsync(b, SearchBans.SuccessType(), func(s UBLState, p AsyncPayload[string, []domain.BanEntry]) UBLState {
		s.Searching = false
		s.SearchResults = *p.Result
		return s
	})
	HandleAsync(b, SearchBans.FailureType(), func(s UBLState, p AsyncPayload[string, []domain.BanEntry]) UBLState {
		s.Searching = false
		return s
	})

	// Create appends the optimistic entry (server ID not yet known);
	// success replaces the whole list position with the stored record
	// by swapping the optimistic entry out.
	HandleAsync(b, CreateBan.StartedType(), func(s UBLState, p AsyncPayload[api.BanRequest, domain.BanEntry]) UBLState {
		s.Backup = s.Bans
		if p.Result != nil {
			s.Bans = append(append([]domain.BanEntry{}, s.Bans...), *p.Result)
		}
		return s
	})
	HandleAsync(b, CreateBan.SuccessType(), func(s UBLState, p AsyncPayload[api.BanRequest, domain.BanEntry]) UBLState {
		list := append([]domain.BanEntry{}, s.Backup...)
		s.Bans = append(list, *p.Result)
		s.Backup = nil
		return s
	})
	HandleAsync(b, CreateBan.FailureType(), func(s UBLState, p AsyncPayload[api.BanRequest, domain.BanEntry]) UBLState {
		s.Bans = s.Backup
		s.Backup = nil
		return s
	})

	HandleAsync(b, EditBan.StartedType(), func(s UBLState, p AsyncPayload[BanEditParams, domain.BanEntry]) UBLState {
		s.Backup = s.Bans
		if p.Result != nil {
			s.Bans = patchBan(s.Bans, p.Params.ID, func(domain.BanEntry) domain.BanEntry {
				return *p.Result
			})
		}
		return s
	})
	HandleAsync(b, EditBan.SuccessType(), func(s UBLState, p AsyncPayload[BanEditParams, domain.BanEntry]) UBLState {
		s.Bans = patchBan(s.Bans, p.Params.ID, func(domain.BanEntry) domain.BanEntry {
			return *p.Result
		})
		s.Backup = nil
		return s
	})
	HandleAsync(b, EditBan.FailureType(), func(s UBLState, p AsyncPayload[BanEditParams, domain.BanEntry]) UBLState {
		s.Bans = s.Backup
		s.Backup = nil
		return s
	})

	HandleAsync(b, DeleteBan.StartedType(), func(s UBLState, p AsyncPayload[BanDeleteParams, struct{}]) UBLState {
		s.Backup = s.Bans
		out := make([]domain.BanEntry, 0, len(s.Bans))
		for _, ban := range s.Bans {
			if ban.ID != p.Params.ID {
				out = append(out, ban)
			}
		}
		s.Bans = out
		return s
	})
	HandleAsync(b, DeleteBan.SuccessType(), func(s UBLState, _ AsyncPayload[BanDeleteParams, struct{}]) UBLState {
		s.Backup = nil
		return s
	})
	HandleAsync(b, DeleteBan.FailureType(), func(s UBLState, _ AsyncPayload[BanDeleteParams, struct{}]) UBLState {
		s.Bans = s.Backup
		s.Backup = nil
		return s
	})

	return b.MustBuild()
}()

// patchBan returns a new list with the identified entry transformed.
func patchBan(list []domain.BanEntry, id int64, fn func(domain.BanEntry) domain.BanEntry) []domain.BanEntry {
	out := make([]domain.BanEntry, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i] = fn(out[i])
		}
	}
	return out
}
