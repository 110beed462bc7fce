package logger

import (
	"context"
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of any redacted attribute.
const RedactedValue = "[REDACTED]"

// sessionKeys are always redacted, configured or not. The client
// handles raw JWTs on every refresh cycle and a pasted token pair on
// login; none of them may reach a log line.
var sessionKeys = []string{
	"accesstoken",
	"refreshtoken",
	"authorization",
	"password",
	"secret",
	"jwt",
}

// RedactingHandler wraps an slog.Handler and replaces the values of
// sensitive attributes before they reach the underlying handler. A key
// matches case-insensitively, by substring, so "api.accessToken"
// inside a group is caught as well as a bare "accessToken".
type RedactingHandler struct {
	next slog.Handler
	keys map[string]struct{}
}

// NewRedactingHandler wraps next with redaction for the session keys
// plus any additional configured field names.
func NewRedactingHandler(next slog.Handler, fields []string) *RedactingHandler {
	keys := make(map[string]struct{}, len(sessionKeys)+len(fields))
	for _, k := range sessionKeys {
		keys[k] = struct{}{}
	}
	for _, f := range fields {
		keys[strings.ToLower(f)] = struct{}{}
	}
	return &RedactingHandler{next: next, keys: keys}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	scrubbed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		scrubbed.AddAttrs(h.scrub(a))
		return true
	})
	return h.next.Handle(ctx, scrubbed)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = h.scrub(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(scrubbed), keys: h.keys}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), keys: h.keys}
}

// scrub redacts a matching attribute and recurses into groups.
func (h *RedactingHandler) scrub(a slog.Attr) slog.Attr {
	if h.matches(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		scrubbed := make([]any, 0, len(members))
		for _, ga := range members {
			scrubbed = append(scrubbed, h.scrub(ga))
		}
		return slog.Group(a.Key, scrubbed...)
	}
	return a
}

func (h *RedactingHandler) matches(key string) bool {
	key = strings.ToLower(key)
	if _, ok := h.keys[key]; ok {
		return true
	}
	for k := range h.keys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}
