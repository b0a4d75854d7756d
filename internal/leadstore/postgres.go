package leadstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists leads into a key-value shaped table (one row per
// identifier, payload as jsonb). Expiry is recorded on the row for the
// out-of-band cleanup job; Postgres has no native per-row TTL.
type PostgresStore struct {
	pool   pgExecer
	tracer trace.Tracer
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("leadstore: pgx pool required")
	}
	return newPostgresStoreWithExec(pool)
}

func newPostgresStoreWithExec(exec pgExecer) *PostgresStore {
	if exec == nil {
		panic("leadstore: exec required")
	}
	return &PostgresStore{
		pool:   exec,
		tracer: otel.Tracer("leadintake.internal.leadstore.postgres"),
	}
}

// Save inserts the lead row, returning ErrDuplicateID when the identifier is
// already present. The conflict clause never rewrites an existing row.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	if s == nil || s.pool == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "leadstore.postgres_save")
	defer span.End()

	query := `
		INSERT INTO leads (id, payload, email, company, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	ct, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.Payload,
		rec.Email,
		rec.Company,
		rec.CreatedAt,
		rec.CreatedAt.Add(LeadTTL),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("leadstore: failed to persist lead: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrDuplicateID
	}
	return nil
}
