package state

import (
	"uhc/internal/api"
	"uhc/internal/domain"
)

// AlertsState holds the configured alert rules.
type AlertsState struct {
	Rules   []domain.AlertRule
	Loading bool
	Error   string

	// Backup is the pre-operation rule list for delete rollback.
	Backup []domain.AlertRule
}

// AlertDeleteParams identifies a rule deletion.
type AlertDeleteParams struct {
	ID int64
}

// Alert rule operations.
var (
	FetchAlerts = NewAsync[struct{}, []domain.AlertRule]("alerts/fetch")
	CreateAlert = NewAsync[api.AlertRuleRequest, domain.AlertRule]("alerts/create")
	DeleteAlert = NewAsync[AlertDeleteParams, struct{}]("alerts/delete")
)

var alertsReducer = func() *Reducer[AlertsState] {
	b := NewBuilder(AlertsState{})

	HandleAsync(b, FetchAlerts.StartedType(), func(s AlertsState, _ AsyncPayload[struct{}, []domain.AlertRule]) AlertsState {
		s.Loading = true
		s.Error = ""
		return s
	})
	HandleAsync(b, FetchAlerts.SuccessType(), func(s AlertsState, p AsyncPayload[struct{}, []domain.AlertRule]) AlertsState {
		s.Loading = false
		s.Rules = *p.Result
		return s
	})
	HandleAsync(b, FetchAlerts.FailureType(), func(s AlertsState, p AsyncPayload[struct{}, []domain.AlertRule]) AlertsState {
		s.Loading = false
		s.Error = api.UserMessage(p.Err)
		return s
	})

	// Creation is confirmed, not optimistic: the server assigns the ID.
	HandleAsync(b, CreateAlert.SuccessType(), func(s AlertsState, p AsyncPayload[api.AlertRuleRequest, domain.AlertRule]) AlertsState {
		s.Rules = append(append([]domain.AlertRule{}, s.Rules...), *p.Result)
		return s
	})

	HandleAsync(b, DeleteAlert.StartedType(), func(s AlertsState, p AsyncPayload[AlertDeleteParams, struct{}]) AlertsState {
		s.Backup = s.Rules
		out := make([]domain.AlertRule, 0, len(s.Rules))
		for _, r := range s.Rules {
			if r.ID != p.Params.ID {
				out = append(out, r)
			}
		}
		s.Rules = out
		return s
	})
	HandleAsync(b, DeleteAlert.SuccessType(), func(s AlertsState, _ AsyncPayload[AlertDeleteParams, struct{}]) AlertsState {
		s.Backup = nil
		return s
	})
	HandleAsync(b, DeleteAlert.FailureType(), func(s AlertsState, _ AsyncPayload[AlertDeleteParams, struct{}]) AlertsState {
		s.Rules = s.Backup
		s.Backup = nil
		return s
	})

	return b.MustBuild()
}()
