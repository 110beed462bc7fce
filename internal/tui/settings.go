package tui

import (
	"fmt"
	"strings"

	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// settingsPage toggles the persisted preferences. Every change is
// written back to the local store by the settings saga.
type settingsPage struct {
	cursor int
}

func newSettingsPage() *settingsPage { return &settingsPage{} }

func (p *settingsPage) Title() string { return "Settings" }

type settingRow struct {
	label  string
	value  func(s state.SettingsState) string
	toggle state.Action
}

func (p *settingsPage) rows() []settingRow {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	return []settingRow{
		{
			label:  "Dark mode",
			value:  func(s state.SettingsState) string { return onOff(s.IsDarkMode) },
			toggle: state.ToggleDarkMode.New(struct{}{}),
		},
		{
			label:  "12-hour clock",
			value:  func(s state.SettingsState) string { return onOff(s.Is12h) },
			toggle: state.Toggle12h.New(struct{}{}),
		},
		{
			label:  "Hide removed matches",
			value:  func(s state.SettingsState) string { return onOff(s.HideRemoved) },
			toggle: state.ToggleHideRemoved.New(struct{}{}),
		},
		{
			label:  "Show own removed matches",
			value:  func(s state.SettingsState) string { return onOff(s.ShowOwnRemoved) },
			toggle: state.ToggleShowOwnRemoved.New(struct{}{}),
		},
	}
}

func (p *settingsPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	rows := p.rows()
	switch key.String() {
	case "j", "down":
		if p.cursor < len(rows)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "enter", " ":
		if p.cursor < len(rows) {
			a.store.Dispatch(rows[p.cursor].toggle)
		}
	case "s":
		a.store.Dispatch(state.SyncTime.Start(struct{}{}))
	}
	return nil
}

func (p *settingsPage) View(a *App) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("Settings"))
	b.WriteString("\n\n")

	for i, row := range p.rows() {
		line := fmt.Sprintf("%-28s %s", row.label, row.value(a.root.Settings))
		if i == p.cursor {
			line = a.theme.RowSelected.Render(line)
		} else {
			line = a.theme.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Row.Render(fmt.Sprintf("%-28s %s", "Timezone", a.root.Settings.Timezone)))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("j/k: move  enter: toggle  s: resync clock"))
	return b.String()
}
