package state

import (
	"time"

	"uhc/internal/api"
)

// RulesState holds the site rules document.
type RulesState struct {
	Content      string
	ModifiedBy   string
	LastModified time.Time
	Loading      bool
	Saving       bool
	Error        string
}

// Site rules operations.
var (
	FetchRules = NewAsync[struct{}, api.RulesDocument]("rules/fetch")
	SaveRules  = NewAsync[string, struct{}]("rules/save")
)

var rulesReducer = func() *Reducer[RulesState] {
	b := NewBuilder(RulesState{})

	HandleAsync(b, FetchRules.StartedType(), func(s RulesState, _ AsyncPayload[struct{}, api.RulesDocument]) RulesState {
		s.Loading = true
		s.Error = ""
		return s
	})
	HandleAsync(b, FetchRules.SuccessType(), func(s RulesState, p AsyncPayload[struct{}, api.RulesDocument]) RulesState {
		s.Loading = false
		s.Content = p.Result.Content
		s.ModifiedBy = p.Result.ModifiedBy
		s.LastModified = p.Result.LastModified
		return s
	})
	HandleAsync(b, FetchRules.FailureType(), func(s RulesState, p AsyncPayload[struct{}, api.RulesDocument]) RulesState {
		s.Loading = false
		s.Error = api.UserMessage(p.Err)
		return s
	})

	// Saving is optimistic for the content text; failure restores
	// nothing because the previous content remains the authoritative
	// fetch result until success.
	HandleAsync(b, SaveRules.StartedType(), func(s RulesState, _ AsyncPayload[string, struct{}]) RulesState {
		s.Saving = true
		return s
	})
	HandleAsync(b, SaveRules.SuccessType(), func(s RulesState, p AsyncPayload[string, struct{}]) RulesState {
		s.Saving = false
		s.Content = p.Params
		return s
	})
	HandleAsync(b, SaveRules.FailureType(), func(s RulesState, _ AsyncPayload[string, struct{}]) RulesState {
		s.Saving = false
		return s
	})

	return b.MustBuild()
}()
