package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS history (
    id BIGSERIAL PRIMARY KEY,
    timestamp_ms BIGINT NOT NULL,
    mode TEXT NOT NULL DEFAULT '',
    pump BOOLEAN NOT NULL,
    case_temp DOUBLE PRECISION NOT NULL,
    water DOUBLE PRECISION NOT NULL,
    outlet DOUBLE PRECISION NOT NULL,
    inlet DOUBLE PRECISION NOT NULL,
    discharge DOUBLE PRECISION NOT NULL,
    suction DOUBLE PRECISION NOT NULL,
    evaporator DOUBLE PRECISION NOT NULL,
    ambient DOUBLE PRECISION NOT NULL,
    compspeed INTEGER NOT NULL,
    waterspeed INTEGER NOT NULL,
    fanspeed INTEGER NOT NULL,
    power INTEGER NOT NULL,
    current_a DOUBLE PRECISION NOT NULL,
    hours DOUBLE PRECISION NOT NULL,
    starts DOUBLE PRECISION NOT NULL,
    boost BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history (timestamp_ms);

CREATE TABLE IF NOT EXISTS boost_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMPTZ NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
CREATE INDEX IF NOT EXISTS idx_boost_events_occurred_at ON boost_events (occurred_at);

CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

// InitPostgres opens a connection pool for dsn and ensures tables exist.
func InitPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}
	return pool, nil
}
