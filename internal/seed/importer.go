package seed

import (
	"context"
	"fmt"
	"time"

	"uhc/internal/domain"
	"uhc/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertBan = `
	INSERT INTO ubl (ign, uuid, reason, link, created, expires, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (uuid, created) DO UPDATE SET
		ign = EXCLUDED.ign,
		reason = EXCLUDED.reason,
		link = EXCLUDED.link,
		expires = EXCLUDED.expires,
		created_by = EXCLUDED.created_by
`

// batchSize bounds how many inserts travel in one round trip.
const batchSize = 500

// Importer writes ban entries straight into the service database. This
// bypasses the HTTP API deliberately: the historical import predates
// the API's validation rules and runs with operator credentials.
type Importer struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewImporter connects to the database at connString.
func NewImporter(ctx context.Context, connString string, log *logger.Logger) (*Importer, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	cfg.MaxConns = 4
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if log == nil {
		log = logger.Default()
	}
	return &Importer{pool: pool, log: log}, nil
}

// Import upserts the entries in batches and returns how many rows were
// written. Entries sharing a UUID and ban date collapse onto one row.
func (i *Importer) Import(ctx context.Context, entries []domain.BanEntry) (int, error) {
	written := 0
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		n, err := i.sendBatch(ctx, entries[start:end])
		written += n
		if err != nil {
			return written, err
		}
		i.log.Debug("imported batch", "rows", n, "total", written)
	}
	return written, nil
}

func (i *Importer) sendBatch(ctx context.Context, entries []domain.BanEntry) (int, error) {
	batch := newBanBatch(entries)
	results := i.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range entries {
		if _, err := results.Exec(); err != nil {
			return written, fmt.Errorf("inserting ban %d of batch: %w", written+1, err)
		}
		written++
	}
	return written, nil
}

// newBanBatch queues one upsert per entry.
func newBanBatch(entries []domain.BanEntry) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertBan, e.IGN, e.UUID, e.Reason, e.Link, e.Created, e.Expires, e.CreatedBy)
	}
	return batch
}

// Close releases the connection pool.
func (i *Importer) Close() {
	i.pool.Close()
}
