package tui

import (
	"fmt"
	"sort"
	"strings"

	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// permissionsPage shows who holds what, grouped by username initial
// the way the website's members list folds.
type permissionsPage struct {
	cursor int
}

func newPermissionsPage() *permissionsPage { return &permissionsPage{} }

func (p *permissionsPage) Title() string { return "Permissions" }

// letters returns the sorted initials present in the permission set.
func (p *permissionsPage) letters(a *App) []string {
	seen := map[string]bool{}
	for _, u := range a.root.Permissions.Set.Usernames() {
		seen[initial(u)] = true
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func initial(username string) string {
	if username == "" {
		return "?"
	}
	return strings.ToUpper(username[:1])
}

func (p *permissionsPage) Update(a *App, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	letters := p.letters(a)
	switch key.String() {
	case "j", "down":
		if p.cursor < len(letters)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "enter", " ":
		if p.cursor < len(letters) {
			a.store.Dispatch(state.PermissionLetter.Toggle(letters[p.cursor]))
		}
	case "r":
		a.store.Dispatch(state.FetchPermissions.Start(struct{}{}))
		a.store.Dispatch(state.FetchPermissionLog.Start(struct{}{}))
	}
	return nil
}

func (p *permissionsPage) View(a *App) string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("Permissions"))
	b.WriteString("\n")
	if a.root.Permissions.Loading {
		b.WriteString(a.theme.Muted.Render("loading..."))
		b.WriteString("\n")
	}
	if a.root.Permissions.Error != "" {
		b.WriteString(a.theme.Error.Render(a.root.Permissions.Error))
		b.WriteString("\n")
	}

	set := a.root.Permissions.Set
	byInitial := map[string][]string{}
	for _, u := range set.Usernames() {
		byInitial[initial(u)] = append(byInitial[initial(u)], u)
	}

	letters := p.letters(a)
	if p.cursor >= len(letters) && len(letters) > 0 {
		p.cursor = len(letters) - 1
	}
	for i, letter := range letters {
		marker := "▸"
		if a.root.Permissions.Expanded[letter] {
			marker = "▾"
		}
		line := fmt.Sprintf("%s %s (%d)", marker, letter, len(byInitial[letter]))
		if i == p.cursor {
			line = a.theme.RowSelected.Render(line)
		} else {
			line = a.theme.Header.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if !a.root.Permissions.Expanded[letter] {
			continue
		}
		for _, u := range byInitial[letter] {
			var perms []string
			for perm, users := range set {
				for _, holder := range users {
					if holder == u {
						perms = append(perms, perm)
					}
				}
			}
			sort.Strings(perms)
			b.WriteString(a.theme.Row.Render(fmt.Sprintf("  %-20s %s", u, strings.Join(perms, ", "))))
			b.WriteString("\n")
		}
	}

	if len(a.root.Permissions.Log) > 0 {
		b.WriteString("\n")
		b.WriteString(a.theme.Header.Render("Recent changes"))
		b.WriteString("\n")
		log := a.root.Permissions.Log
		if len(log) > 8 {
			log = log[:8]
		}
		for _, e := range log {
			verb := "removed from"
			if e.Added {
				verb = "granted to"
			}
			b.WriteString(a.theme.Muted.Render(fmt.Sprintf("%s: %q %s %s by %s", a.formatTime(e.At), e.Permission, verb, e.Username, e.Modifier)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("j/k: move  enter: fold/unfold  r: refresh"))
	return b.String()
}
