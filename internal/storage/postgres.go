package storage

import (
	"context"
	"fmt"
	"time"

	"dj-booking/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Cache is the subset of the Redis client used for read-through caching
// and rate limiting.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	CountHit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Config struct {
	Database   config.DatabaseConfig
	ReportsDir string
}

type PostgresStorage struct {
	db         *sqlx.DB
	cache      Cache
	reportsDir string
	logger     *zap.Logger
	now        func() time.Time
}

func NewPostgresStorage(ctx context.Context, cfg Config, cache Cache, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.Database.ConnectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return New(db, cache, cfg.ReportsDir, logger), nil
}

// New wraps an open connection.
func New(db *sqlx.DB, cache Cache, reportsDir string, logger *zap.Logger) *PostgresStorage {
	if reportsDir == "" {
		reportsDir = "reports"
	}
	return &PostgresStorage{
		db:         db,
		cache:      cache,
		reportsDir: reportsDir,
		logger:     logger,
		now:        time.Now,
	}
}

// DB exposes the underlying connection for migrations.
func (s *PostgresStorage) DB() *sqlx.DB {
	return s.db
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
