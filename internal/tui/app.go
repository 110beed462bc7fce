package tui

import (
	"fmt"
	"strings"
	"time"

	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 4 * time.Second

// page is one full-screen view. Pages render from the App's snapshot
// and express intent by dispatching store actions.
type page interface {
	Title() string
	Update(a *App, msg tea.Msg) tea.Cmd
	View(a *App) string
}

// App is the root bubbletea model.
type App struct {
	store *state.Store
	root  state.Root
	theme Theme

	pages  []page
	active int

	width  int
	height int

	// seenToasts tracks which toast IDs already have an expiry timer.
	seenToasts map[int64]bool

	quitting bool
}

// NewApp builds the model. The store snapshot taken here is the
// post-bootstrap state, so the first frame shows persisted settings.
func NewApp(store *state.Store) *App {
	root := store.State()
	return &App{
		store: store,
		root:  root,
		theme: themeFor(root.Settings.IsDarkMode),
		pages: []page{
			newMatchesPage(),
			newUBLPage(),
			newPermissionsPage(),
			newAlertsPage(),
			newRulesPage(),
			newHostPage(root),
			newSettingsPage(),
		},
		seenToasts: map[int64]bool{},
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	// Load what every page needs up front.
	a.store.Dispatch(state.FetchUpcoming.Start(struct{}{}))
	a.store.Dispatch(state.FetchBans.Start(struct{}{}))
	a.store.Dispatch(state.FetchPermissions.Start(struct{}{}))
	a.store.Dispatch(state.FetchAlerts.Start(struct{}{}))
	a.store.Dispatch(state.FetchRules.Start(struct{}{}))
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case stateMsg:
		a.root = msg.root
		a.theme = themeFor(a.root.Settings.IsDarkMode)
		cmds = append(cmds, a.scheduleToastExpiry()...)

	case toastTickMsg:
		a.store.Dispatch(state.ExpireToast.New(msg.id))
		delete(a.seenToasts, msg.id)

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}
	}

	if cmd := a.pages[a.active].Update(a, msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// The host form owns most keys while editing.
	if capture, ok := a.pages[a.active].(interface{ capturesInput() bool }); ok && capture.capturesInput() {
		switch msg.String() {
		case "ctrl+c":
			a.quitting = true
			return tea.Quit, true
		}
		return nil, false
	}

	switch msg.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return tea.Quit, true
	case "tab", "right":
		a.active = (a.active + 1) % len(a.pages)
		return nil, true
	case "shift+tab", "left":
		a.active = (a.active - 1 + len(a.pages)) % len(a.pages)
		return nil, true
	case "1", "2", "3", "4", "5", "6", "7":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.pages) {
			a.active = idx
		}
		return nil, true
	}
	return nil, false
}

// scheduleToastExpiry starts one timer per newly arrived toast.
func (a *App) scheduleToastExpiry() []tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range a.root.Toasts.Queue {
		if a.seenToasts[t.ID] {
			continue
		}
		a.seenToasts[t.ID] = true
		id := t.ID
		cmds = append(cmds, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastTickMsg{id: id}
		}))
	}
	return cmds
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if !a.root.Settings.Loaded {
		// Bootstrap gates the first render; this is only reachable if
		// the caller skipped it.
		return "loading settings..."
	}

	var b strings.Builder
	b.WriteString(a.viewTabs())
	b.WriteString("\n\n")
	b.WriteString(a.pages[a.active].View(a))
	b.WriteString("\n")
	if toasts := a.viewToasts(); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}
	b.WriteString(a.viewStatusBar())
	return b.String()
}

func (a *App) viewTabs() string {
	tabs := make([]string, 0, len(a.pages))
	for i, p := range a.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if i == a.active {
			tabs = append(tabs, a.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, a.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) viewToasts() string {
	if len(a.root.Toasts.Queue) == 0 {
		return ""
	}
	lines := make([]string, 0, len(a.root.Toasts.Queue))
	for _, t := range a.root.Toasts.Queue {
		var style lipgloss.Style
		switch t.Kind {
		case state.ToastSuccess:
			style = a.theme.ToastSuccess
		case state.ToastError:
			style = a.theme.ToastError
		default:
			style = a.theme.ToastInfo
		}
		lines = append(lines, style.Render(t.Message))
	}
	return strings.Join(lines, "\n")
}

func (a *App) viewStatusBar() string {
	user := state.CurrentUsername(a.root)
	if user == "" {
		user = "not logged in"
	}
	sync := "clock unsynced"
	if a.root.TimeSync.Synced {
		sync = fmt.Sprintf("offset %s", a.root.TimeSync.Offset.Round(time.Millisecond))
	}
	left := fmt.Sprintf(" %s | %s | %s ", user, a.root.Settings.Timezone, sync)
	help := " tab: switch  q: quit "

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 1 {
		gap = 1
	}
	return a.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + help)
}

// formatTime renders a timestamp with the user's timezone and clock
// format preferences.
func (a *App) formatTime(t time.Time) string {
	return state.FormatTimestamp(a.root, t)
}
