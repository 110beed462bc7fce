// Package config loads and watches the uhc client configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level        string   `mapstructure:"level"`         // debug, info, warn, error
	Format       string   `mapstructure:"format"`        // text, json, pretty
	Output       string   `mapstructure:"output"`        // stdout, stderr, or file path
	FilePath     string   `mapstructure:"file_path"`     // path to log file (in addition to output)
	MaxSizeMB    int      `mapstructure:"max_size_mb"`   // max size in MB before rotation
	MaxBackups   int      `mapstructure:"max_backups"`   // max number of old log files to keep
	MaxAgeDays   int      `mapstructure:"max_age_days"`  // max days to retain old log files
	EnableCaller bool     `mapstructure:"enable_caller"` // include source file/line in logs
	NoColor      bool     `mapstructure:"no_color"`      // disable colored output (pretty format only)
	RedactFields []string `mapstructure:"redact_fields"` // field names to redact from logs

	AuditPath       string `mapstructure:"audit_path"`         // moderation trail file; empty disables it
	AuditMaxAgeDays int    `mapstructure:"audit_max_age_days"` // max days to retain audit logs
}

// APIConfig holds the hosting service endpoint settings.
type APIConfig struct {
	// BaseURL is the root of the hosting service API.
	BaseURL string `mapstructure:"base_url"`

	// Timeout applies to every request; zero means no client timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// RateLimit caps outgoing requests per second. Zero disables the
	// limiter.
	RateLimit float64 `mapstructure:"rate_limit"`

	// Burst is the limiter burst size.
	Burst int `mapstructure:"burst"`
}

// OutputConfig holds output formatting options.
type OutputConfig struct {
	Format string `mapstructure:"format"` // text, json, yaml, table
	Color  bool   `mapstructure:"color"`
}

// DataConfig locates the client's local state.
type DataConfig struct {
	// Dir holds the local store database and other client state.
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig holds the PostgreSQL connection used only by the
// admin seeding commands. Regular client operation never touches the
// database directly.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// Config is the full uhc client configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	API      APIConfig      `mapstructure:"api"`
	Output   OutputConfig   `mapstructure:"output"`
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Default returns sensible defaults for the uhc client.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:           "info",
			Format:          "text",
			Output:          "stderr",
			MaxSizeMB:       100,
			MaxBackups:      3,
			MaxAgeDays:      28,
			RedactFields:    []string{"password", "token", "accessToken", "refreshToken", "authorization", "secret"},
			AuditMaxAgeDays: 365,
		},
		API: APIConfig{
			BaseURL:   "https://hosts.uhc.gg",
			Timeout:   0,
			RateLimit: 10,
			Burst:     20,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
		Data: DataConfig{
			Dir: defaultDataDir(),
		},
	}
}

// LocalStorePath is the key-value database location under the data
// directory.
func (c *Config) LocalStorePath() string {
	return filepath.Join(c.Data.Dir, "local.db")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".uhc")
	}
	return filepath.Join(home, ".local", "share", "uhc")
}
