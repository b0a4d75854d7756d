// Package bootstrap wires soft-configured collaborators (store backends,
// email providers, GeoIP) from configuration, degrading to nil instead of
// failing when an optional binding is absent.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/growthops/lead-intake/internal/config"
	"github.com/growthops/lead-intake/internal/leadstore"
	"github.com/growthops/lead-intake/internal/notify"
	"github.com/growthops/lead-intake/internal/requestmeta"
	"github.com/growthops/lead-intake/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildLeadStore selects the single persistence backend named by LEAD_STORE.
// An empty selection, or a selected backend that turns out to be unreachable,
// yields a nil store: submissions are then accepted without persistence.
// The returned cleanup releases whatever client the store holds.
func BuildLeadStore(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (leadstore.Store, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}
	if cfg == nil {
		return nil, noop, nil
	}

	switch cfg.LeadStore {
	case "":
		logger.Info("lead persistence disabled")
		return nil, noop, nil

	case "redis":
		client := BuildRedisClient(ctx, cfg, logger, true)
		store := leadstore.NewRedisStore(client, logger)
		if store == nil {
			logger.Warn("lead store unavailable, submissions will not be persisted", "store", "redis")
			return nil, noop, nil
		}
		return store, func() { _ = client.Close() }, nil

	case "dynamodb":
		client := dynamodb.NewFromConfig(awsCfg)
		return leadstore.NewDynamoStore(client, cfg.DynamoDBLeadsTable, logger), noop, nil

	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			logger.Warn("lead store unavailable, submissions will not be persisted", "store", "postgres", "reason", "DATABASE_URL not set")
			return nil, noop, nil
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			logger.Warn("lead store unavailable, submissions will not be persisted", "store", "postgres", "error", err)
			return nil, noop, nil
		}
		return leadstore.NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("bootstrap: unknown lead store %q", cfg.LeadStore)
	}
}

// BuildEmailSender selects the notification provider named by EMAIL_PROVIDER.
// The reason string explains a nil sender for startup logs.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (notify.EmailSender, string) {
	if cfg == nil {
		return nil, "missing config"
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.EmailProvider {
	case "":
		return nil, "email provider not configured"

	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.Notify.FromEmail,
			FromName:  cfg.Notify.FromName,
		}, logger)
		if sender == nil {
			return nil, "SENDGRID_API_KEY not set"
		}
		return sender, ""

	case "ses":
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.Notify.FromEmail,
			FromName:  cfg.Notify.FromName,
		}, logger)
		if sender == nil {
			return nil, "SES client unavailable"
		}
		return sender, ""

	case "stub":
		return notify.NewStubEmailSender(logger), ""

	default:
		return nil, fmt.Sprintf("unknown email provider %q", cfg.EmailProvider)
	}
}

// BuildGeoResolver opens the MaxMind database when configured. Lookup
// failures at startup degrade to nil so country just resolves to unknown.
func BuildGeoResolver(cfg *appconfig.Config, logger *logging.Logger) *requestmeta.GeoResolver {
	if cfg == nil || strings.TrimSpace(cfg.GeoIPDBPath) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	resolver, err := requestmeta.OpenGeoResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip database unavailable", "path", cfg.GeoIPDBPath, "error", err)
		return nil
	}
	logger.Info("geoip database loaded", "path", cfg.GeoIPDBPath)
	return resolver
}
