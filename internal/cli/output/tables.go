package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"uhc/internal/domain"
)

const timeLayout = "2006-01-02 15:04 MST"

func formatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(timeLayout)
}

// MatchTable renders match listings. Opens times are shown in loc, or
// the server's zone when loc is nil.
func MatchTable(matches []domain.Match, loc *time.Location) *Table {
	t := NewTable("id", "opens", "host", "region", "teams", "scenarios", "status")
	for i := range matches {
		m := &matches[i]
		status := "open"
		switch {
		case m.Removed:
			reason := ""
			if m.RemovedReason != nil {
				reason = ": " + *m.RemovedReason
			}
			status = "removed" + reason
		case m.ApprovedBy != nil:
			status = "approved by " + *m.ApprovedBy
		}
		t.AddRow(
			strconv.FormatInt(m.ID, 10),
			formatTime(m.Opens, loc),
			m.DisplayName(),
			m.Region,
			m.TeamsLabel(),
			strings.Join(m.Scenarios, ", "),
			status,
		)
	}
	return t
}

// MatchDetail renders a single match as a two-column table.
func MatchDetail(m *domain.Match, loc *time.Location) *Table {
	t := NewTable("field", "value")
	t.AddRow("id", strconv.FormatInt(m.ID, 10))
	t.AddRow("host", m.DisplayName())
	t.AddRow("author", m.Author)
	t.AddRow("opens", formatTime(m.Opens, loc))
	t.AddRow("region", m.Region)
	t.AddRow("location", m.Location)
	t.AddRow("version", m.Version)
	addr := m.IP
	if m.Address != nil {
		addr = *m.Address
	}
	t.AddRow("address", addr)
	t.AddRow("teams", m.TeamsLabel())
	t.AddRow("scenarios", strings.Join(m.Scenarios, ", "))
	t.AddRow("slots", strconv.Itoa(m.Slots))
	t.AddRow("length", fmt.Sprintf("%d min", m.Length))
	t.AddRow("map size", strconv.Itoa(m.MapSize))
	t.AddRow("pvp at", fmt.Sprintf("%d min", m.PVPEnabledAt))
	t.AddRow("tournament", strconv.FormatBool(m.Tournament))
	if m.Removed {
		by, reason := "", ""
		if m.RemovedBy != nil {
			by = *m.RemovedBy
		}
		if m.RemovedReason != nil {
			reason = *m.RemovedReason
		}
		t.AddRow("removed", fmt.Sprintf("by %s: %s", by, reason))
	}
	if m.ApprovedBy != nil {
		t.AddRow("approved by", *m.ApprovedBy)
	}
	return t
}

// BanTable renders ban entries. Permanent bans show "never" instead of
// the sentinel expiry year.
func BanTable(bans []domain.BanEntry, loc *time.Location) *Table {
	t := NewTable("id", "ign", "uuid", "reason", "banned", "expires")
	for i := range bans {
		b := &bans[i]
		expires := formatTime(b.Expires, loc)
		if b.Expires.Year() >= 9999 {
			expires = "never"
		}
		t.AddRow(
			strconv.FormatInt(b.ID, 10),
			b.IGN,
			b.UUID,
			b.Reason,
			b.Created.Format("2006-01-02"),
			expires,
		)
	}
	return t
}

// PermissionTable renders a permission set grouped by permission, with
// usernames sorted within each group.
func PermissionTable(set domain.PermissionSet) *Table {
	t := NewTable("permission", "users")
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	for _, p := range perms {
		users := append([]string(nil), set[p]...)
		sort.Strings(users)
		t.AddRow(p, strings.Join(users, ", "))
	}
	return t
}

// PermissionLogTable renders the moderation log, newest first as the
// server returns it.
func PermissionLogTable(entries []domain.PermissionLogEntry, loc *time.Location) *Table {
	t := NewTable("at", "modifier", "change", "user")
	for i := range entries {
		e := &entries[i]
		change := "-" + e.Permission
		if e.Added {
			change = "+" + e.Permission
		}
		t.AddRow(formatTime(e.At, loc), e.Modifier, change, e.Username)
	}
	return t
}

// AlertRuleTable renders alert rules.
func AlertRuleTable(rules []domain.AlertRule) *Table {
	t := NewTable("id", "field", "match", "value", "created by")
	for i := range rules {
		r := &rules[i]
		match := "contains"
		if r.Exact {
			match = "equals"
		}
		t.AddRow(
			strconv.FormatInt(r.ID, 10),
			string(r.Field),
			match,
			r.AlertOn,
			r.CreatedBy,
		)
	}
	return t
}
