package cmd

import (
	"context"

	"uhc/internal/api"
	"uhc/internal/logger"
)

// auditModeration records the outcome of a moderation call in the local
// trail. Permission failures count as denied, everything else failed or
// succeeded; the entry is written either way.
func auditModeration(ctx context.Context, s *session, action logger.AuditAction, resource string, err error, metadata map[string]any) {
	outcome := logger.AuditOutcomeSuccess
	switch {
	case api.IsForbidden(err) || api.IsNotAuthenticated(err):
		outcome = logger.AuditOutcomeDenied
	case err != nil:
		outcome = logger.AuditOutcomeFailure
	}
	AuditLog().LogModeration(ctx, action, s.username, resource, outcome, metadata)
}
