package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditAction identifies a moderation action worth keeping a local
// trail of. The server has its own log; this one answers "what did I
// do from this machine" without a round trip.
type AuditAction string

const (
	AuditActionLogin          AuditAction = "login"
	AuditActionLogout         AuditAction = "logout"
	AuditActionMatchCreate    AuditAction = "match_create"
	AuditActionMatchRemove    AuditAction = "match_remove"
	AuditActionMatchApprove   AuditAction = "match_approve"
	AuditActionBanCreate      AuditAction = "ban_create"
	AuditActionBanEdit        AuditAction = "ban_edit"
	AuditActionBanDelete      AuditAction = "ban_delete"
	AuditActionPermissionAdd  AuditAction = "permission_add"
	AuditActionPermissionDrop AuditAction = "permission_remove"
	AuditActionAlertCreate    AuditAction = "alert_rule_create"
	AuditActionAlertDelete    AuditAction = "alert_rule_delete"
	AuditActionRulesSave      AuditAction = "rules_save"
	AuditActionCommand        AuditAction = "command"
)

// AuditOutcome represents the result of an audited action.
type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "success"
	AuditOutcomeFailure AuditOutcome = "failure"
	AuditOutcomeDenied  AuditOutcome = "denied"
)

// AuditEvent is one moderation trail entry.
type AuditEvent struct {
	Action    AuditAction    `json:"action"`
	Actor     string         `json:"actor"`
	Resource  string         `json:"resource"`
	Outcome   AuditOutcome   `json:"outcome"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"request_id,omitempty"`
}

// AuditLogger appends moderation events to a dedicated rotated file,
// always as JSON. A nil AuditLogger discards everything, so callers
// never need to guard.
type AuditLogger struct {
	logger *slog.Logger
	closer *lumberjack.Logger
}

// NewAuditLogger creates an audit logger writing to auditPath.
func NewAuditLogger(auditPath string, maxAgeDays int) (*AuditLogger, error) {
	if auditPath == "" {
		return nil, fmt.Errorf("audit path is required")
	}
	if err := os.MkdirAll(filepath.Dir(auditPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	if maxAgeDays <= 0 {
		maxAgeDays = 365
	}

	lj := &lumberjack.Logger{
		Filename:   auditPath,
		MaxSize:    100,
		MaxBackups: 0,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	handler := slog.NewJSONHandler(lj, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &AuditLogger{logger: slog.New(handler), closer: lj}, nil
}

// Log records an audit event.
func (a *AuditLogger) Log(ctx context.Context, event AuditEvent) {
	if a == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		if cc := CommandContextFrom(ctx); cc != nil {
			event.RequestID = cc.RequestID
		}
	}

	attrs := []slog.Attr{
		slog.String("action", string(event.Action)),
		slog.String("actor", event.Actor),
		slog.String("resource", event.Resource),
		slog.String("outcome", string(event.Outcome)),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", event.RequestID))
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", event.Metadata))
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// LogModeration records one moderation action against a resource such
// as "match/5" or "ubl/42".
func (a *AuditLogger) LogModeration(ctx context.Context, action AuditAction, actor, resource string, outcome AuditOutcome, metadata map[string]any) {
	a.Log(ctx, AuditEvent{
		Action:   action,
		Actor:    actor,
		Resource: resource,
		Outcome:  outcome,
		Metadata: metadata,
	})
}

// LogSession records a login or logout.
func (a *AuditLogger) LogSession(ctx context.Context, action AuditAction, actor string) {
	a.Log(ctx, AuditEvent{
		Action:   action,
		Actor:    actor,
		Resource: "session",
		Outcome:  AuditOutcomeSuccess,
	})
}

// LogCommand records one CLI invocation.
func (a *AuditLogger) LogCommand(ctx context.Context, command string, outcome AuditOutcome, metadata map[string]any) {
	actor := ""
	if cc := CommandContextFrom(ctx); cc != nil {
		actor = cc.User
	}
	a.Log(ctx, AuditEvent{
		Action:   AuditActionCommand,
		Actor:    actor,
		Resource: command,
		Outcome:  outcome,
		Metadata: metadata,
	})
}

// Close closes the audit logger.
func (a *AuditLogger) Close() error {
	if a != nil && a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// NopAuditLogger returns an audit logger that does nothing, for when
// audit logging is disabled.
func NopAuditLogger() *AuditLogger {
	return nil
}
