package domain

import (
	"strings"
	"time"
)

// AlertField identifies the match field an alert rule inspects.
type AlertField string

const (
	AlertFieldIP          AlertField = "ip"
	AlertFieldAddress     AlertField = "address"
	AlertFieldHostingName AlertField = "hosting name"
	AlertFieldContent     AlertField = "content"
	AlertFieldTags        AlertField = "tags"
)

// AlertFields lists every valid alert field.
var AlertFields = []AlertField{
	AlertFieldIP,
	AlertFieldAddress,
	AlertFieldHostingName,
	AlertFieldContent,
	AlertFieldTags,
}

// IsValid returns true if the field is in the fixed enumeration.
func (f AlertField) IsValid() bool {
	switch f {
	case AlertFieldIP, AlertFieldAddress, AlertFieldHostingName,
		AlertFieldContent, AlertFieldTags:
		return true
	default:
		return false
	}
}

// AlertRule flags incoming matches whose field matches a pattern.
type AlertRule struct {
	ID        int64      `json:"id"`
	Field     AlertField `json:"field"`
	AlertOn   string     `json:"alertOn"`
	Exact     bool       `json:"exact"`
	CreatedBy string     `json:"createdBy"`
	Created   time.Time  `json:"created"`
}

// Validate checks the rule invariants.
func (r *AlertRule) Validate() error {
	if !r.Field.IsValid() {
		return ErrInvalidAlertField
	}
	if strings.TrimSpace(r.AlertOn) == "" {
		return ErrEmptyAlertPattern
	}
	return nil
}

// FieldValues extracts the rule's field from a match. Multi-valued
// fields (tags) yield one string per value.
func (r *AlertRule) FieldValues(m *Match) []string {
	switch r.Field {
	case AlertFieldIP:
		return []string{m.IP}
	case AlertFieldAddress:
		if m.Address == nil {
			return nil
		}
		return []string{*m.Address}
	case AlertFieldHostingName:
		return []string{m.DisplayName()}
	case AlertFieldContent:
		return []string{m.Content}
	case AlertFieldTags:
		return m.Tags
	default:
		return nil
	}
}
