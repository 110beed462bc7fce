package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"uhc/internal/config"

	"github.com/spf13/cobra"
)

// ==================== Logger Tests ====================

func TestNew_Defaults(t *testing.T) {
	cfg := config.LogConfig{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Close()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNew_JSONFormat(t *testing.T) {
	cfg := config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Close()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNew_PrettyFormat(t *testing.T) {
	cfg := config.LogConfig{
		Level:  "debug",
		Format: "pretty",
		Output: "stdout",
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Close()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	cfg := config.LogConfig{
		Level:  "invalid",
		Format: "text",
		Output: "stderr",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestNew_FileOutput(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "uhc.log")

	cfg := config.LogConfig{
		Level:  "info",
		Format: "text",
		Output: logPath,
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("test message")
	logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestNew_MultipleOutputs(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "extra.log")

	cfg := config.LogConfig{
		Level:    "info",
		Format:   "text",
		Output:   "stderr",
		FilePath: filePath,
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("test message")
	logger.Close()

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		t.Error("file output was not created")
	}
}

func TestLogger_With(t *testing.T) {
	cfg := config.LogConfig{Level: "info", Format: "text", Output: "stderr"}
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Close()

	child := logger.With("page", "matches")
	if child == nil {
		t.Fatal("expected non-nil child logger")
	}
	if child == logger {
		t.Error("With should return a new logger")
	}
}

func TestLogger_WithGroup(t *testing.T) {
	cfg := config.LogConfig{Level: "info", Format: "text", Output: "stderr"}
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logger.Close()

	grouped := logger.WithGroup("api")
	if grouped == nil {
		t.Fatal("expected non-nil grouped logger")
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("expected non-nil default logger")
	}
	// Must be safe to close even without file writers.
	if err := logger.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"DEBUG", slog.LevelDebug, false},
		{"bogus", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLevel(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLevel(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ==================== Redacting Handler Tests ====================

func redactedOutput(t *testing.T, fields []string, log func(l *slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	base := slog.NewJSONHandler(buf, nil)
	log(slog.New(NewRedactingHandler(base, fields)))
	return buf.String()
}

func TestRedactingHandler_RedactsConfiguredKeys(t *testing.T) {
	out := redactedOutput(t, []string{"accessToken", "refreshToken"}, func(l *slog.Logger) {
		l.Info("login", "accessToken", "secret-value", "username", "alice")
	})

	if strings.Contains(out, "secret-value") {
		t.Errorf("token value leaked into log output: %s", out)
	}
	if !strings.Contains(out, RedactedValue) {
		t.Errorf("expected %q placeholder in output: %s", RedactedValue, out)
	}
	if !strings.Contains(out, "alice") {
		t.Errorf("unrelated field was dropped: %s", out)
	}
}

func TestRedactingHandler_SessionKeysNeedNoConfig(t *testing.T) {
	out := redactedOutput(t, nil, func(l *slog.Logger) {
		l.Info("refresh", "refreshToken", "rt-raw", "accessToken", "at-raw")
	})

	if strings.Contains(out, "rt-raw") || strings.Contains(out, "at-raw") {
		t.Errorf("session tokens leaked with an empty redact list: %s", out)
	}
}

func TestRedactingHandler_SubstringMatch(t *testing.T) {
	// "token" matches "session_token" too.
	out := redactedOutput(t, []string{"token"}, func(l *slog.Logger) {
		l.Info("refresh", "session_token", "abc123")
	})

	if strings.Contains(out, "abc123") {
		t.Errorf("substring-matched key was not redacted: %s", out)
	}
}

func TestRedactingHandler_CaseInsensitive(t *testing.T) {
	out := redactedOutput(t, []string{"password"}, func(l *slog.Logger) {
		l.Info("auth", "Password", "hunter2")
	})

	if strings.Contains(out, "hunter2") {
		t.Errorf("case variant was not redacted: %s", out)
	}
}

func TestRedactingHandler_RedactsInsideGroups(t *testing.T) {
	out := redactedOutput(t, []string{"token"}, func(l *slog.Logger) {
		l.Info("sync", slog.Group("auth", slog.String("token", "xyz"), slog.String("user", "bob")))
	})

	if strings.Contains(out, "xyz") {
		t.Errorf("grouped token was not redacted: %s", out)
	}
	if !strings.Contains(out, "bob") {
		t.Errorf("grouped non-secret was dropped: %s", out)
	}
}

func TestRedactingHandler_WithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.NewJSONHandler(buf, nil)
	h := NewRedactingHandler(base, []string{"apikey"})

	l := slog.New(h.WithAttrs([]slog.Attr{slog.String("apiKey", "k-123")}))
	l.Info("request")

	if strings.Contains(buf.String(), "k-123") {
		t.Errorf("handler-level attr was not redacted: %s", buf.String())
	}
}

// ==================== Console Handler Tests ====================

func TestNewConsoleHandler_Defaults(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewConsoleHandler(buf, nil)
	if h == nil {
		t.Fatal("expected non-nil handler")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be enabled by default")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled by default")
	}
}

func TestConsoleHandler_Handle(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewConsoleHandler(buf, &ConsoleHandlerOptions{Level: slog.LevelDebug})
	l := slog.New(h)

	l.Info("upcoming matches loaded", "count", 7)

	out := buf.String()
	if !strings.Contains(out, "upcoming matches loaded") {
		t.Errorf("message missing from output: %s", out)
	}
	if !strings.Contains(out, "count") {
		t.Errorf("attribute key missing from output: %s", out)
	}
}

func TestConsoleHandler_WithAttrsAndGroup(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewConsoleHandler(buf, &ConsoleHandlerOptions{Level: slog.LevelDebug})

	l := slog.New(h.WithAttrs([]slog.Attr{slog.String("page", "ubl")}).WithGroup("api"))
	l.Info("search complete", "hits", 3)

	out := buf.String()
	if !strings.Contains(out, "page") {
		t.Errorf("handler attr missing from output: %s", out)
	}
	if !strings.Contains(out, "api.hits") {
		t.Errorf("expected group-qualified key in output: %s", out)
	}
}

func TestConsoleHandler_ErrorValueFormatting(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewConsoleHandler(buf, &ConsoleHandlerOptions{Level: slog.LevelDebug})
	l := slog.New(h)

	l.Error("request failed", "error", errors.New("connection refused"))

	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("error value missing from output: %s", buf.String())
	}
}

func TestCharmLogLevelMapping(t *testing.T) {
	if charmLogLevel(slog.LevelError) != charmLogLevel(slog.LevelError+4) {
		t.Error("levels above error should map to error")
	}
}

func TestConsoleHandler_NoColor(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewConsoleHandler(buf, &ConsoleHandlerOptions{Level: slog.LevelDebug, NoColor: true})
	slog.New(h).Info("plain output")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no escape sequences in output: %q", buf.String())
	}
}

// ==================== Context Tests ====================

func TestNewCommandContext(t *testing.T) {
	cmd := &cobra.Command{Use: "matches"}
	cc := NewCommandContext(cmd, []string{"--region", "NA"})

	if cc.Command != "matches" {
		t.Errorf("Command = %q, want %q", cc.Command, "matches")
	}
	if len(cc.Args) != 2 {
		t.Errorf("Args = %v, want 2 entries", cc.Args)
	}
	if cc.RequestID == "" {
		t.Error("expected a request ID")
	}
	if cc.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestNewBackgroundContext(t *testing.T) {
	cc := NewBackgroundContext("token-refresh")

	if cc.Command != "token-refresh" {
		t.Errorf("Command = %q, want %q", cc.Command, "token-refresh")
	}
	if cc.RequestID == "" {
		t.Error("expected a request ID")
	}
}

func TestCommandContext_RoundTrip(t *testing.T) {
	cc := NewBackgroundContext("time-sync")
	ctx := WithCommandContext(context.Background(), cc)

	got := CommandContextFrom(ctx)
	if got != cc {
		t.Error("expected the same CommandContext back")
	}
	if CommandContextFrom(context.Background()) != nil {
		t.Error("expected nil from a bare context")
	}
}

func TestLoggerRoundTrip(t *testing.T) {
	logger := Default()
	ctx := WithLogger(context.Background(), logger)

	if LoggerFrom(ctx) != logger {
		t.Error("expected the same logger back")
	}
	if LoggerFrom(context.Background()) == nil {
		t.Error("expected the default logger from a bare context")
	}
}

func TestCommandContext_LogAttrs(t *testing.T) {
	cc := NewCommandContext(&cobra.Command{Use: "ubl"}, nil)
	attrs := cc.LogAttrs()
	if len(attrs) == 0 {
		t.Fatal("expected attrs")
	}

	var nilCC *CommandContext
	if nilCC.LogAttrs() != nil {
		t.Error("nil context should produce no attrs")
	}
}

// ==================== Error Helper Tests ====================

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	wrapped := WrapError(base, "fetching matches")

	if wrapped == nil {
		t.Fatal("expected non-nil error")
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if !strings.Contains(wrapped.Error(), "fetching matches") {
		t.Errorf("message missing: %s", wrapped.Error())
	}

	var we *WrappedError
	if !errors.As(wrapped, &we) {
		t.Fatal("expected a *WrappedError")
	}
	if we.Caller() == "" || we.Caller() == "unknown" {
		t.Errorf("expected caller info, got %q", we.Caller())
	}
}

func TestWrapError_Nil(t *testing.T) {
	if WrapError(nil, "nothing") != nil {
		t.Error("wrapping nil should stay nil")
	}
}

func TestWithError(t *testing.T) {
	attr := WithError(WrapError(errors.New("boom"), "saving rules"))
	if attr.Key != "error" {
		t.Errorf("Key = %q, want %q", attr.Key, "error")
	}

	empty := WithError(nil)
	if empty.Key != "" {
		t.Error("nil error should produce an empty attr")
	}
}

func TestErrorGroup_Chain(t *testing.T) {
	buf := &bytes.Buffer{}
	l := slog.New(slog.NewJSONHandler(buf, nil))

	err := WrapError(errors.New("row not found"), "loading ban")
	l.Info("lookup", ErrorGroup(err, false))

	out := buf.String()
	if !strings.Contains(out, "row not found") {
		t.Errorf("cause missing from output: %s", out)
	}
	if !strings.Contains(out, "loading ban") {
		t.Errorf("wrap message missing from output: %s", out)
	}
}

func TestWithStack(t *testing.T) {
	attr := WithStack()
	if attr.Key != "stack" {
		t.Errorf("Key = %q, want %q", attr.Key, "stack")
	}
	if attr.Value.String() == "" {
		t.Error("expected a captured stack")
	}
}

// ==================== Audit Logger Tests ====================

func auditLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading audit file: %v", err)
	}
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("audit line is not JSON: %v: %s", err, line)
		}
		events = append(events, ev)
	}
	return events
}

func TestAuditLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.log")
	audit, err := NewAuditLogger(path, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	audit.LogModeration(context.Background(), AuditActionMatchRemove, "alice", "match/5", AuditOutcomeSuccess, map[string]any{"reason": "spam"})
	audit.Close()

	events := auditLines(t, path)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev["action"] != "match_remove" {
		t.Errorf("action = %v, want match_remove", ev["action"])
	}
	if ev["actor"] != "alice" {
		t.Errorf("actor = %v, want alice", ev["actor"])
	}
	if ev["resource"] != "match/5" {
		t.Errorf("resource = %v, want match/5", ev["resource"])
	}
	if ev["outcome"] != "success" {
		t.Errorf("outcome = %v, want success", ev["outcome"])
	}
}

func TestAuditLogger_RequestIDFromContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	audit, err := NewAuditLogger(path, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cc := NewBackgroundContext("test")
	ctx := WithCommandContext(context.Background(), cc)
	audit.LogSession(ctx, AuditActionLogin, "bob")
	audit.Close()

	events := auditLines(t, path)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0]["request_id"] != cc.RequestID {
		t.Errorf("request_id = %v, want %v", events[0]["request_id"], cc.RequestID)
	}
	if events[0]["resource"] != "session" {
		t.Errorf("resource = %v, want session", events[0]["resource"])
	}
}

func TestAuditLogger_NilIsSafe(t *testing.T) {
	audit := NopAuditLogger()

	// None of these may panic.
	audit.Log(context.Background(), AuditEvent{Action: AuditActionLogin})
	audit.LogModeration(context.Background(), AuditActionBanCreate, "a", "ubl/x", AuditOutcomeFailure, nil)
	audit.LogSession(context.Background(), AuditActionLogout, "a")
	if err := audit.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestAuditLogger_RequiresPath(t *testing.T) {
	if _, err := NewAuditLogger("", 30); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestAuditEvent_TimestampFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	audit, err := NewAuditLogger(path, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := time.Now()
	audit.Log(context.Background(), AuditEvent{
		Action:   AuditActionRulesSave,
		Actor:    "carol",
		Resource: "rules",
		Outcome:  AuditOutcomeSuccess,
	})
	audit.Close()

	events := auditLines(t, path)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ts, err := time.Parse(time.RFC3339Nano, events[0]["timestamp"].(string))
	if err != nil {
		t.Fatalf("timestamp not parseable: %v", err)
	}
	if ts.Before(before.Add(-time.Second)) {
		t.Errorf("timestamp %v too far in the past", ts)
	}
}
