package leadstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/growthops/lead-intake/pkg/logging"
)

// RedisStore persists leads as JSON values with a metadata hash per key.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	logger *logging.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore builds a Redis-backed store. A nil client yields a nil store,
// which callers treat as persistence being unconfigured.
func NewRedisStore(client *redis.Client, logger *logging.Logger) *RedisStore {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{
		redis:  client,
		tracer: otel.Tracer("leadintake.internal.leadstore.redis"),
		logger: logger,
	}
}

// Save writes the lead payload under SET NX with the one-year expiration, then
// the metadata hash in a transactional pipeline. A losing NX race reports
// ErrDuplicateID without touching the existing record.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if s == nil || s.redis == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "leadstore.redis_save")
	defer span.End()

	created, err := s.redis.SetNX(ctx, leadKey(rec.ID), rec.Payload, LeadTTL).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("leadstore: failed to persist lead: %w", err)
	}
	if !created {
		return ErrDuplicateID
	}

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, leadMetaKey(rec.ID),
		"email", rec.Email,
		"company", rec.Company,
		"createdAt", rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	pipe.Expire(ctx, leadMetaKey(rec.ID), LeadTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		// The payload is already durable; the side index is best-effort.
		span.RecordError(err)
		s.logger.Warn("lead metadata write failed", "lead_id", rec.ID, "error", err)
	}
	return nil
}

func leadKey(id string) string {
	return fmt.Sprintf("lead:%s", id)
}

func leadMetaKey(id string) string {
	return fmt.Sprintf("lead:%s:meta", id)
}
