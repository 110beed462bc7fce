package tui

import (
	"fmt"
	"strings"

	"uhc/internal/state"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// matchesPage lists upcoming matches with moderation shortcuts.
type matchesPage struct {
	cursor int

	// removing is non-zero while the reason prompt for that match is
	// open.
	removing int64
	reason   textinput.Model
}

func newMatchesPage() *matchesPage {
	reason := textinput.New()
	reason.Placeholder = "removal reason"
	reason.CharLimit = 200
	return &matchesPage{reason: reason}
}

func (p *matchesPage) Title() string { return "Matches" }

func (p *matchesPage) capturesInput() bool { return p.removing != 0 }

func (p *matchesPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if p.removing != 0 {
		switch key.String() {
		case "esc":
			p.removing = 0
			p.reason.Reset()
			return nil
		case "enter":
			reason := strings.TrimSpace(p.reason.Value())
			if reason == "" {
				return nil
			}
			a.store.Dispatch(state.RemoveMatch.Start(state.RemovalParams{
				ID:     p.removing,
				Reason: reason,
			}))
			p.removing = 0
			p.reason.Reset()
			return nil
		}
		var cmd tea.Cmd
		p.reason, cmd = p.reason.Update(msg)
		return cmd
	}

	matches := state.VisibleMatches(a.root)
	switch key.String() {
	case "j", "down":
		if p.cursor < len(matches)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "r":
		a.store.Dispatch(state.FetchUpcoming.Start(struct{}{}))
	case "d":
		if p.cursor < len(matches) && !matches[p.cursor].Removed {
			p.removing = matches[p.cursor].ID
			p.reason.Focus()
			return textinput.Blink
		}
	case "a":
		if p.cursor < len(matches) && matches[p.cursor].ApprovedBy == nil {
			a.store.Dispatch(state.ApproveMatch.Start(state.ApprovalParams{
				ID: matches[p.cursor].ID,
			}))
		}
	}
	return nil
}

func (p *matchesPage) View(a *App) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("Upcoming matches"))
	b.WriteString("\n")
	if a.root.Matches.Loading {
		b.WriteString(a.theme.Muted.Render("loading..."))
		b.WriteString("\n")
	}
	if a.root.Matches.Error != "" {
		b.WriteString(a.theme.Error.Render(a.root.Matches.Error))
		b.WriteString("\n")
	}

	matches := state.VisibleMatches(a.root)
	if p.cursor >= len(matches) && len(matches) > 0 {
		p.cursor = len(matches) - 1
	}
	if len(matches) == 0 && !a.root.Matches.Loading {
		b.WriteString(a.theme.Muted.Render("no upcoming matches"))
		b.WriteString("\n")
	}

	for i, m := range matches {
		line := fmt.Sprintf("%-28s %-6s %-8s %s", m.DisplayName(), m.Region, m.TeamsLabel(), a.formatTime(m.Opens))
		switch {
		case m.Removed:
			reason := ""
			if m.RemovedReason != nil {
				reason = " (" + *m.RemovedReason + ")"
			}
			line = a.theme.Removed.Render(line + reason)
		case i == p.cursor:
			line = a.theme.RowSelected.Render(line)
		default:
			line = a.theme.Row.Render(line)
		}
		if m.ApprovedBy != nil && !m.Removed {
			line += a.theme.Muted.Render(" ✓" + *m.ApprovedBy)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if p.removing != 0 {
		b.WriteString("\n")
		b.WriteString(a.theme.Header.Render(fmt.Sprintf("Remove match #%d", p.removing)))
		b.WriteString("\n")
		b.WriteString(p.reason.View())
		b.WriteString("\n")
		b.WriteString(a.theme.Muted.Render("enter: confirm  esc: cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(a.theme.Muted.Render("j/k: move  d: remove  a: approve  r: refresh"))
	}
	return b.String()
}
