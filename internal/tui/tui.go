// Package tui provides the full-screen interactive client.
//
// The app is a dashboard over the shared state store: every page reads
// from the latest Root snapshot and expresses intent by dispatching
// actions. Store updates are bridged into bubbletea messages, so the
// render loop never reads the store directly.
package tui

import (
	"context"

	"uhc/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// stateMsg carries a fresh store snapshot into the bubbletea loop.
type stateMsg struct {
	root state.Root
}

// toastTickMsg expires a toast after its display time.
type toastTickMsg struct {
	id int64
}

// Run starts the program and blocks until the user quits or ctx is
// cancelled. The caller must have completed the settings bootstrap
// first; the first frame renders from persisted settings, not
// defaults.
func Run(ctx context.Context, store *state.Store) error {
	app := NewApp(store)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := store.Subscribe(func(r state.Root) {
		program.Send(stateMsg{root: r})
	})
	defer unsubscribe()

	_, err := program.Run()
	return err
}
