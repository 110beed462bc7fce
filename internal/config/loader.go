package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is the name used for config directories and env prefixes.
const AppName = "uhc"

// configSearchPaths returns the paths to search for config files in
// order of precedence (later paths have higher priority in Viper).
func configSearchPaths() []string {
	paths := []string{filepath.Join("/etc", AppName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", AppName))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}
	return paths
}

// UserConfigDir returns the user-specific config directory.
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// newViper creates and configures a new Viper instance.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range configSearchPaths() {
		v.AddConfigPath(path)
	}
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration: defaults, then the config file (the
// explicit cfgFile if given, otherwise the search paths), then UHC_*
// environment variables.
func Load(cfgFile string) (*Config, error) {
	v := newViper()
	setViperDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setViperDefaults sets default values in Viper from a config struct.
func setViperDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.output", c.Log.Output)
	v.SetDefault("log.file_path", c.Log.FilePath)
	v.SetDefault("log.max_size_mb", c.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("log.max_age_days", c.Log.MaxAgeDays)
	v.SetDefault("log.enable_caller", c.Log.EnableCaller)
	v.SetDefault("log.no_color", c.Log.NoColor)
	v.SetDefault("log.redact_fields", c.Log.RedactFields)
	v.SetDefault("log.audit_path", c.Log.AuditPath)
	v.SetDefault("log.audit_max_age_days", c.Log.AuditMaxAgeDays)
	v.SetDefault("api.base_url", c.API.BaseURL)
	v.SetDefault("api.timeout", c.API.Timeout)
	v.SetDefault("api.rate_limit", c.API.RateLimit)
	v.SetDefault("api.burst", c.API.Burst)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.color", c.Output.Color)
	v.SetDefault("data.dir", c.Data.Dir)
	v.SetDefault("database.url", c.Database.URL)
}

// ConfigFileUsed returns the config file path that was loaded, if any.
func ConfigFileUsed() string {
	v := newViper()
	_ = v.ReadInConfig()
	return v.ConfigFileUsed()
}

// NewViperFromConfig creates a viper instance populated with values
// from a config struct.
func NewViperFromConfig(c *Config) *viper.Viper {
	v := viper.New()
	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("log.output", c.Log.Output)
	v.Set("log.file_path", c.Log.FilePath)
	v.Set("log.max_size_mb", c.Log.MaxSizeMB)
	v.Set("log.max_backups", c.Log.MaxBackups)
	v.Set("log.max_age_days", c.Log.MaxAgeDays)
	v.Set("log.enable_caller", c.Log.EnableCaller)
	v.Set("log.no_color", c.Log.NoColor)
	v.Set("log.redact_fields", c.Log.RedactFields)
	v.Set("log.audit_path", c.Log.AuditPath)
	v.Set("log.audit_max_age_days", c.Log.AuditMaxAgeDays)
	v.Set("api.base_url", c.API.BaseURL)
	v.Set("api.timeout", c.API.Timeout)
	v.Set("api.rate_limit", c.API.RateLimit)
	v.Set("api.burst", c.API.Burst)
	v.Set("output.format", c.Output.Format)
	v.Set("output.color", c.Output.Color)
	v.Set("data.dir", c.Data.Dir)
	v.Set("database.url", c.Database.URL)
	return v
}
