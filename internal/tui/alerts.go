package tui

import (
	"fmt"
	"strings"

	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// alertsPage lists the moderation alert rules.
type alertsPage struct {
	cursor int
}

func newAlertsPage() *alertsPage { return &alertsPage{} }

func (p *alertsPage) Title() string { return "Alerts" }

func (p *alertsPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	rules := a.root.Alerts.Rules
	switch key.String() {
	case "j", "down":
		if p.cursor < len(rules)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "r":
		a.store.Dispatch(state.FetchAlerts.Start(struct{}{}))
	case "x":
		if p.cursor < len(rules) {
			a.store.Dispatch(state.DeleteAlert.Start(state.AlertDeleteParams{ID: rules[p.cursor].ID}))
		}
	}
	return nil
}

func (p *alertsPage) View(a *App) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("Alert rules"))
	b.WriteString("\n")
	if a.root.Alerts.Loading {
		b.WriteString(a.theme.Muted.Render("loading..."))
		b.WriteString("\n")
	}
	if a.root.Alerts.Error != "" {
		b.WriteString(a.theme.Error.Render(a.root.Alerts.Error))
		b.WriteString("\n")
	}

	rules := a.root.Alerts.Rules
	if p.cursor >= len(rules) && len(rules) > 0 {
		p.cursor = len(rules) - 1
	}
	if len(rules) == 0 && !a.root.Alerts.Loading {
		b.WriteString(a.theme.Muted.Render("no alert rules"))
		b.WriteString("\n")
	}
	for i, rule := range rules {
		mode := "contains"
		if rule.Exact {
			mode = "equals"
		}
		line := fmt.Sprintf("%-14s %-8s %-30s by %s", rule.Field, mode, truncate(rule.AlertOn, 30), rule.CreatedBy)
		if i == p.cursor {
			line = a.theme.RowSelected.Render(line)
		} else {
			line = a.theme.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("j/k: move  x: delete  r: refresh"))
	return b.String()
}
