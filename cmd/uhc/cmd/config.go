package cmd

import (
	"fmt"
	"net/url"

	"uhc/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and generate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Output().Write(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.ConfigFileUsed()
		}
		if path == "" {
			return fmt.Errorf("no config file found; run 'uhc config generate'")
		}
		Output().Println(path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration for problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		var problems []string
		if _, err := url.Parse(cfg.API.BaseURL); err != nil || cfg.API.BaseURL == "" {
			problems = append(problems, fmt.Sprintf("api.base_url %q is not a valid URL", cfg.API.BaseURL))
		}
		switch cfg.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level))
		}
		switch cfg.Log.Format {
		case "text", "json", "pretty":
		default:
			problems = append(problems, fmt.Sprintf("log.format %q is not one of text, json, pretty", cfg.Log.Format))
		}
		if f := cfg.Output.Format; f != "table" && f != "json" && f != "yaml" && f != "quiet" {
			problems = append(problems, fmt.Sprintf("output.format %q is not one of table, json, yaml, quiet", f))
		}
		if cfg.Data.Dir == "" {
			problems = append(problems, "data.dir is empty")
		}

		out := Output()
		if len(problems) > 0 {
			for _, p := range problems {
				out.Errorf("✗ %s\n", p)
			}
			return fmt.Errorf("%d configuration problem(s)", len(problems))
		}
		out.Success("configuration is valid")
		return nil
	},
}

var generateFormat string

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GenerateConfig(generateFormat)
		if err != nil {
			return err
		}
		Output().Success(fmt.Sprintf("wrote %s", path))
		return nil
	},
}

func init() {
	configGenerateCmd.Flags().StringVar(&generateFormat, "format", "yaml", "config format (yaml, toml, json)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(configCmd)
}
