package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	clierrors "uhc/internal/cli/errors"
	"uhc/internal/cli/output"
	"uhc/internal/config"
	"uhc/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the config file (set via --config flag)
	cfgFile string

	// cfg holds the loaded configuration
	cfg *config.Config

	// log is the logger instance
	log *logger.Logger

	// auditLog is the audit logger instance
	auditLog *logger.AuditLogger

	// cmdStartTime tracks when command execution started
	cmdStartTime time.Time

	// cmdCtx is the command context with logger and command context
	cmdCtx context.Context

	// Global output flags
	outputFormat string
	verboseMode  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uhc",
	Short: "uhc is a terminal client for the match hosting service",
	Long: `uhc is a terminal client for the community match hosting service.
It browses upcoming matches, submits listings with conflict checking,
and carries the moderation tooling: the universal ban list, staff
permissions, alert rules and the hosting rules document.

Run without a subcommand to get this help; run 'uhc tui' for the
interactive interface.`,
	// Allow flags before or after subcommand
	TraverseChildren: true,
	// Execute renders errors through the cli/errors presenter
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}

		// Initialize logger
		var err error
		log, err = logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Initialize audit logger if configured
		if cfg.Log.AuditPath != "" {
			auditLog, err = logger.NewAuditLogger(cfg.Log.AuditPath, cfg.Log.AuditMaxAgeDays)
			if err != nil {
				log.Warn("failed to initialize audit logger", "error", err)
			}
		}

		// Create command context
		cc := logger.NewCommandContext(cmd, args)
		cmdCtx = logger.WithCommandContext(context.Background(), cc)
		cmdCtx = logger.WithLogger(cmdCtx, log)

		// Track start time for duration logging
		cmdStartTime = time.Now()

		log.Debug("command started",
			"command", cc.Command,
			"args", cc.Args,
			"request_id", cc.RequestID,
			"user", cc.User,
		)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log == nil {
			return nil
		}

		duration := time.Since(cmdStartTime)
		cc := logger.CommandContextFrom(cmdCtx)

		log.Debug("command completed",
			"command", cc.Command,
			"duration_ms", duration.Milliseconds(),
			"request_id", cc.RequestID,
		)

		if auditLog != nil {
			auditLog.LogCommand(cmdCtx, cc.Command, logger.AuditOutcomeSuccess, map[string]any{
				"duration_ms": duration.Milliseconds(),
				"args":        cc.Args,
			})
			auditLog.Close()
		}
		log.Close()

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rich := clierrors.FromAPI(err)
		fmt.Fprint(os.Stderr, clierrors.Display(rich))
		os.Exit(clierrors.ExitCode(rich.Code))
	}
}

func init() {
	cobra.OnInitialize(onInitialize)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/uhc/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (json, yaml, table, quiet)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "verbose output (includes full log output)")

	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
}

// onInitialize is called before any command runs
func onInitialize() {
	// Auto-generate config on first run
	if cfgFile == "" {
		path, created, err := config.GenerateConfigIfNotExists("yaml")
		if err == nil && created {
			fmt.Fprintf(os.Stderr, "Created default config at: %s\n", path)
		}
	}
}

// loadConfig loads the configuration
func loadConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = viper.GetString("output.format")
	}

	return nil
}

// Config returns the current configuration (for use by subcommands)
func Config() *config.Config {
	return cfg
}

// Log returns the logger instance (for use by subcommands)
func Log() *logger.Logger {
	return log
}

// AuditLog returns the audit logger instance (for use by subcommands)
func AuditLog() *logger.AuditLogger {
	return auditLog
}

// Context returns the command context (for use by subcommands)
func Context() context.Context {
	return cmdCtx
}

// Output returns a writer honoring the configured output format.
func Output() *output.Writer {
	return output.NewWriter(output.ParseFormat(cfg.Output.Format))
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verboseMode
}
