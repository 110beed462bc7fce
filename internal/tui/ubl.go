package tui

import (
	"fmt"
	"strings"
	"time"

	"uhc/internal/domain"
	"uhc/internal/state"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ublPage lists the universal ban list with name search.
type ublPage struct {
	cursor    int
	searching bool
	search    textinput.Model
}

func newUBLPage() *ublPage {
	search := textinput.New()
	search.Placeholder = "in-game name"
	search.CharLimit = 16
	return &ublPage{search: search}
}

func (p *ublPage) Title() string { return "UBL" }

func (p *ublPage) capturesInput() bool { return p.searching }

// visible returns search results when a query is active, otherwise the
// full current list.
func (p *ublPage) visible(a *App) []domain.BanEntry {
	if a.root.UBL.SearchQuery != "" {
		return a.root.UBL.SearchResults
	}
	return a.root.UBL.Bans
}

func (p *ublPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if p.searching {
		switch key.String() {
		case "esc":
			p.searching = false
			p.search.Reset()
			return nil
		case "enter":
			query := strings.TrimSpace(p.search.Value())
			p.searching = false
			if query != "" {
				a.store.Dispatch(state.SearchBans.Start(query))
			}
			return nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return cmd
	}

	bans := p.visible(a)
	switch key.String() {
	case "j", "down":
		if p.cursor < len(bans)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "r":
		a.store.Dispatch(state.FetchBans.Start(struct{}{}))
	case "/":
		p.searching = true
		p.search.Focus()
		return textinput.Blink
	case "x":
		if p.cursor < len(bans) {
			a.store.Dispatch(state.DeleteBan.Start(state.BanDeleteParams{ID: bans[p.cursor].ID}))
		}
	}
	return nil
}

func (p *ublPage) View(a *App) string {
	var b strings.Builder
	title := "Universal ban list"
	if q := a.root.UBL.SearchQuery; q != "" {
		title = fmt.Sprintf("UBL search: %q", q)
	}
	b.WriteString(a.theme.Title.Render(title))
	b.WriteString("\n")
	if a.root.UBL.Loading || a.root.UBL.Searching {
		b.WriteString(a.theme.Muted.Render("loading..."))
		b.WriteString("\n")
	}
	if a.root.UBL.Error != "" {
		b.WriteString(a.theme.Error.Render(a.root.UBL.Error))
		b.WriteString("\n")
	}

	bans := p.visible(a)
	if p.cursor >= len(bans) && len(bans) > 0 {
		p.cursor = len(bans) - 1
	}
	now := time.Now()
	for i, ban := range bans {
		expiry := "permanent"
		if ban.Expires.Year() < 9999 {
			expiry = a.formatTime(ban.Expires)
		}
		line := fmt.Sprintf("%-16s %-40s %s", ban.IGN, truncate(ban.Reason, 40), expiry)
		switch {
		case !ban.IsActive(now):
			line = a.theme.Removed.Render(line)
		case i == p.cursor:
			line = a.theme.RowSelected.Render(line)
		default:
			line = a.theme.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if p.searching {
		b.WriteString(p.search.View())
		b.WriteString("\n")
		b.WriteString(a.theme.Muted.Render("enter: search  esc: cancel"))
	} else {
		b.WriteString(a.theme.Muted.Render("j/k: move  /: search  x: delete  r: refresh"))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
