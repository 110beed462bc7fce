package tui

import (
	"fmt"
	"strings"

	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// rulesPage shows the site rules document. Editing happens through
// `uhc rules edit`; the page is a reader.
type rulesPage struct {
	scroll int
}

func newRulesPage() *rulesPage { return &rulesPage{} }

func (p *rulesPage) Title() string { return "Rules" }

func (p *rulesPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "j", "down":
		p.scroll++
	case "k", "up":
		if p.scroll > 0 {
			p.scroll--
		}
	case "g":
		p.scroll = 0
	case "r":
		a.store.Dispatch(state.FetchRules.Start(struct{}{}))
	}
	return nil
}

func (p *rulesPage) View(a *App) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("Hosting rules"))
	b.WriteString("\n")
	if a.root.Rules.Loading {
		b.WriteString(a.theme.Muted.Render("loading..."))
		b.WriteString("\n")
	}
	if a.root.Rules.Error != "" {
		b.WriteString(a.theme.Error.Render(a.root.Rules.Error))
		b.WriteString("\n")
	}
	if a.root.Rules.ModifiedBy != "" {
		b.WriteString(a.theme.Muted.Render(fmt.Sprintf("last modified by %s at %s", a.root.Rules.ModifiedBy, a.formatTime(a.root.Rules.LastModified))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	lines := strings.Split(a.root.Rules.Content, "\n")
	if p.scroll >= len(lines) {
		p.scroll = len(lines) - 1
		if p.scroll < 0 {
			p.scroll = 0
		}
	}
	visible := lines[p.scroll:]
	pageSize := a.height - 10
	if pageSize > 0 && len(visible) > pageSize {
		visible = visible[:pageSize]
	}
	for _, line := range visible {
		b.WriteString(a.theme.Row.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("j/k: scroll  g: top  r: refresh"))
	return b.String()
}
