package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

// ConsoleHandler adapts charmbracelet/log to slog.Handler for the
// "pretty" log format. Group attributes are flattened into
// dot-qualified keys since charm log has no native nesting.
type ConsoleHandler struct {
	logger *charmlog.Logger
	writer io.Writer
	opts   ConsoleHandlerOptions
	attrs  []slog.Attr
	groups []string
}

// ConsoleHandlerOptions configures the console handler.
type ConsoleHandlerOptions struct {
	// Level is the minimum level to log.
	Level slog.Leveler
	// NoColor disables all styling.
	NoColor bool
	// TimeFormat is the format for timestamps.
	TimeFormat string
	// ShowCaller shows file:func:line in logs.
	ShowCaller bool
	// Prefix is prepended to all log messages.
	Prefix string
}

// consoleStyles builds the level and field styling. The palette stays
// muted: log lines share the terminal with the TUI and with table
// output, so they should recede, not shout.
func consoleStyles(noColor bool) *charmlog.Styles {
	styles := charmlog.DefaultStyles()

	level := func(label string, color string) lipgloss.Style {
		s := lipgloss.NewStyle().SetString(label)
		if noColor {
			return s
		}
		return s.Bold(true).Foreground(lipgloss.Color(color))
	}
	styles.Levels[charmlog.DebugLevel] = level("DEBUG", "63")
	styles.Levels[charmlog.InfoLevel] = level("INFO ", "42")
	styles.Levels[charmlog.WarnLevel] = level("WARN ", "214")
	styles.Levels[charmlog.ErrorLevel] = level("ERROR", "196")
	styles.Levels[charmlog.FatalLevel] = level("FATAL", "196")

	if noColor {
		plain := lipgloss.NewStyle()
		styles.Key = plain
		styles.Value = plain
		styles.Separator = plain
		styles.Timestamp = plain
		styles.Caller = plain
		styles.Message = plain
		styles.Prefix = plain
		return styles
	}

	styles.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Value = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styles.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styles.Timestamp = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styles.Caller = lipgloss.NewStyle().Foreground(lipgloss.Color("139"))
	styles.Message = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styles.Prefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	return styles
}

func newCharmLogger(w io.Writer, opts ConsoleHandlerOptions) *charmlog.Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportCaller:    opts.ShowCaller,
		ReportTimestamp: true,
		TimeFormat:      opts.TimeFormat,
		Prefix:          opts.Prefix,
		Level:           charmLogLevel(opts.Level.Level()),
	})
	l.SetStyles(consoleStyles(opts.NoColor))
	return l
}

// NewConsoleHandler creates the pretty-format slog handler.
func NewConsoleHandler(w io.Writer, opts *ConsoleHandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &ConsoleHandlerOptions{}
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04:05"
	}
	if opts.Prefix == "" {
		opts.Prefix = "uhc"
	}
	return &ConsoleHandler{
		logger: newCharmLogger(w, *opts),
		writer: w,
		opts:   *opts,
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	kvs := make([]any, 0, (len(h.attrs)+r.NumAttrs())*2)
	for _, attr := range h.attrs {
		if k, v := h.formatAttr(attr); k != "" {
			kvs = append(kvs, k, v)
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if k, v := h.formatAttr(a); k != "" {
			kvs = append(kvs, k, v)
		}
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, kvs...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, kvs...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, kvs...)
	default:
		h.logger.Debug(r.Message, kvs...)
	}
	return nil
}

// formatAttr renders one attribute as a key/value pair, flattening
// group values into "a=1 b=2" strings under a dot-qualified key.
func (h *ConsoleHandler) formatAttr(attr slog.Attr) (string, any) {
	if attr.Key == "" {
		return "", nil
	}
	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		if len(members) == 0 {
			return "", nil
		}
		parts := make([]string, 0, len(members))
		for _, ga := range members {
			if k, v := h.formatAttr(ga); k != "" {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
		}
		return key, strings.Join(parts, " ")
	}
	return key, formatSlogValue(attr.Value)
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		logger: newCharmLogger(h.writer, h.opts),
		writer: h.writer,
		opts:   h.opts,
		attrs:  append([]slog.Attr{}, h.attrs...),
		groups: append([]string{}, h.groups...),
	}
}

// formatSlogValue converts an slog.Value to something charm log can
// print usefully. Errors render as their message.
func formatSlogValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		val := v.Any()
		if err, ok := val.(error); ok {
			return err.Error()
		}
		return val
	case slog.KindGroup:
		return "[group]"
	default:
		return v.Any()
	}
}

func charmLogLevel(level slog.Level) charmlog.Level {
	switch {
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	case level >= slog.LevelInfo:
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}
