package cmd

import (
	"context"
	"fmt"
	"net/http"

	"uhc/internal/api"
	"uhc/internal/config"
	"uhc/internal/localstore"
	"uhc/internal/saga"
	"uhc/internal/state"
	"uhc/internal/tui"

	"github.com/spf13/cobra"
)

// tuiCmd wires the whole client together: the store, the saga runner
// with its refresh and time-sync loops, and the terminal UI on top.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(Context())
		defer cancel()

		kv, err := localstore.Open(cfg.LocalStorePath())
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer kv.Close()

		store := state.NewStore()

		opts := []api.Option{
			api.WithTokenSource(func() string { return store.State().Auth.AccessToken }),
			api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		}
		if cfg.API.Timeout > 0 {
			opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
		}
		client := api.NewClient(cfg.API.BaseURL, opts...)

		runner := saga.NewRunner(store, log, saga.RealClock())
		sagas := saga.New(client, kv, store, log).WithAudit(auditLog)
		sagas.Register(runner)

		// Settings and auth must land in the store before the first
		// frame, or the UI would flash defaults.
		if err := sagas.Bootstrap(ctx); err != nil {
			return fmt.Errorf("failed to load local state: %w", err)
		}

		go runner.Run(ctx)
		sagas.Start(ctx, runner)

		// Connection settings only bind at startup; the watcher just
		// surfaces edits so nobody waits on a change that never lands.
		if w, err := config.NewWatcher(cfgFile); err == nil {
			w.OnChange(func(next *config.Config) {
				log.Info("config file changed, connection settings apply on restart",
					"base_url", next.API.BaseURL)
			})
			w.Start()
		}

		err = tui.Run(ctx, store)

		cancel()
		runner.Wait()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
