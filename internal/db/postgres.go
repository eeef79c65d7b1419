package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrMissingDSN = errors.New("DATABASE_URL not set")

// PoolConfig parses dsn and applies the pool limits used by the API.
func PoolConfig(dsn string) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	return config, nil
}

// ConnectPostgres opens a pool, pings it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := PoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	logger.Info("connected to postgres",
		zap.String("host", config.ConnConfig.Host),
		zap.String("database", config.ConnConfig.Database),
	)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.Info("schema initialized")
	return db, nil
}

// schema creates or updates the database schema. Statements are idempotent.
var schema = []string{
	// -------------------------------
	// RESTAURANT SNAPSHOTS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS restaurant_snapshots (
		id UUID PRIMARY KEY,
		phone VARCHAR(32) NOT NULL,
		restaurant_id VARCHAR(255) NOT NULL DEFAULT '',
		restaurant_name VARCHAR(255) NOT NULL DEFAULT '',
		raw JSONB NOT NULL DEFAULT '{}'::jsonb,
		normalized JSONB NOT NULL DEFAULT '{}'::jsonb,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
	`,
	`
	CREATE INDEX IF NOT EXISTS restaurant_snapshots_phone_fetched_idx
		ON restaurant_snapshots (phone, fetched_at DESC)
	`,
}

func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
