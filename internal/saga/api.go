package saga

import (
	"context"
	"time"

	"uhc/internal/api"
	"uhc/internal/domain"
)

// API is the slice of the HTTP client the workers call. *api.Client
// satisfies it; tests substitute a fake.
type API interface {
	UpcomingMatches(ctx context.Context) ([]domain.Match, error)
	Match(ctx context.Context, id int64) (*domain.Match, error)
	CreateMatch(ctx context.Context, req api.CreateMatchRequest) error
	RemoveMatch(ctx context.Context, id int64, reason string) error
	ApproveMatch(ctx context.Context, id int64) (*domain.Match, error)
	MatchConflicts(ctx context.Context, region string, opens time.Time) ([]domain.Match, error)
	HostMatches(ctx context.Context, host string, before int64) ([]domain.Match, error)

	CurrentBans(ctx context.Context) ([]domain.BanEntry, error)
	SearchBans(ctx context.Context, query string) ([]domain.BanEntry, error)
	CreateBan(ctx context.Context, req api.BanRequest) (*domain.BanEntry, error)
	EditBan(ctx context.Context, id int64, req api.BanRequest) (*domain.BanEntry, error)
	DeleteBan(ctx context.Context, id int64) error

	Permissions(ctx context.Context) (domain.PermissionSet, error)
	PermissionLog(ctx context.Context) ([]domain.PermissionLogEntry, error)
	AddPermission(ctx context.Context, username, permission string) error
	RemovePermission(ctx context.Context, username, permission string) error

	AlertRules(ctx context.Context) ([]domain.AlertRule, error)
	CreateAlertRule(ctx context.Context, req api.AlertRuleRequest) (*domain.AlertRule, error)
	DeleteAlertRule(ctx context.Context, id int64) error

	Rules(ctx context.Context) (*api.RulesDocument, error)
	SaveRules(ctx context.Context, content string) error

	ServerTime(ctx context.Context) (time.Time, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*api.TokenPair, error)
}

var _ API = (*api.Client)(nil)

// KV is the local persistence the settings and auth workers read and
// write. *localstore.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
