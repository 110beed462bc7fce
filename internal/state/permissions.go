package state

import (
	"uhc/internal/api"
	"uhc/internal/domain"
)

// PermissionsState holds the live permission map, the moderation log,
// and the letter-expansion UI state of the member list.
type PermissionsState struct {
	Set     domain.PermissionSet
	Log     []domain.PermissionLogEntry
	Loading bool
	Error   string

	// Expanded tracks which username-initial groups are unfolded.
	Expanded map[string]bool
}

// PermissionChangeParams identifies a grant or revocation.
type PermissionChangeParams struct {
	Username   string
	Permission string
}

// Permission operations. Grants and revocations are not optimistic:
// the saga refetches the authoritative map after each change.
var (
	FetchPermissions   = NewAsync[struct{}, domain.PermissionSet]("permissions/fetch")
	FetchPermissionLog = NewAsync[struct{}, []domain.PermissionLogEntry]("permissions/fetchLog")
	AddPermission      = NewAsync[PermissionChangeParams, struct{}]("permissions/add")
	RemovePermission   = NewAsync[PermissionChangeParams, struct{}]("permissions/remove")

	// PermissionLetter folds and unfolds the member list by initial.
	PermissionLetter = NewFlag("permissions/letter")
)

var permissionsReducer = func() *Reducer[PermissionsState] {
	b := NewBuilder(PermissionsState{Expanded: map[string]bool{}})

	HandleAsync(b, FetchPermissions.StartedType(), func(s PermissionsState, _ AsyncPayload[struct{}, domain.PermissionSet]) PermissionsState {
		s.Loading = true
		s.Error = ""
		return s
	})
	HandleAsync(b, FetchPermissions.SuccessType(), func(s PermissionsState, p AsyncPayload[struct{}, domain.PermissionSet]) PermissionsState {
		s.Loading = false
		s.Set = *p.Result
		return s
	})
	HandleAsync(b, FetchPermissions.FailureType(), func(s PermissionsState, p AsyncPayload[struct{}, domain.PermissionSet]) PermissionsState {
		s.Loading = false
		s.Error = api.UserMessage(p.Err)
		return s
	})

	HandleAsync(b, FetchPermissionLog.SuccessType(), func(s PermissionsState, p AsyncPayload[struct{}, []domain.PermissionLogEntry]) PermissionsState {
		s.Log = *p.Result
		return s
	})

	b.Handle(PermissionLetter.OpenType(), func(s PermissionsState, a Action) PermissionsState {
		s.Expanded = copyFlags(s.Expanded)
		s.Expanded[a.Payload.(string)] = true
		return s
	})
	b.Handle(PermissionLetter.CloseType(), func(s PermissionsState, a Action) PermissionsState {
		s.Expanded = copyFlags(s.Expanded)
		delete(s.Expanded, a.Payload.(string))
		return s
	})
	b.Handle(PermissionLetter.ToggleType(), func(s PermissionsState, a Action) PermissionsState {
		key := a.Payload.(string)
		s.Expanded = copyFlags(s.Expanded)
		if s.Expanded[key] {
			delete(s.Expanded, key)
		} else {
			s.Expanded[key] = true
		}
		return s
	})

	return b.MustBuild()
}()

func copyFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
