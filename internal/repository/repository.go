package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reclaim_control/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Authorization stores operator accounts. GetByUsername returns (nil, nil) when
// the user does not exist.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// History persists device snapshots keyed by capture time in milliseconds.
// Every storage failure wraps models.ErrHistoryUnavailable.
type History interface {
	Insert(ctx context.Context, row models.HistoryRow) (models.HistoryRow, error)
	Range(ctx context.Context, q models.HistoryQuery) ([]models.HistoryRow, error)
	Tables(ctx context.Context) ([]string, error)
	DeleteRange(ctx context.Context, startMs, endMs int64) (int64, error)
	DeleteBefore(ctx context.Context, beforeMs int64) (int64, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.BoostEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.BoostEvent, error)
}

type Repository struct {
	History   History
	EventRepo EventRepo
	Auth      Authorization
}

// NewRepository builds SQLite-backed repositories.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		History:   NewHistorySQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}

// NewPostgresRepository builds repositories on a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		History:   NewHistoryPostgres(pool),
		EventRepo: NewEventPostgres(pool),
		Auth:      NewUserPostgres(pool),
	}
}

// rowScanner is satisfied by *sql.Row, *sql.Rows and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// historySelectColumns lists columns in the order scanHistoryRow expects.
const historySelectColumns = `id, timestamp_ms, mode, pump, case_temp, water, outlet, inlet,
	discharge, suction, evaporator, ambient, compspeed, waterspeed, fanspeed, power,
	current_a, hours, starts, boost`

func scanHistoryRow(s rowScanner) (models.HistoryRow, error) {
	var r models.HistoryRow
	err := s.Scan(
		&r.ID, &r.TimestampMs, &r.Mode, &r.Pump,
		&r.Case, &r.Water, &r.Outlet, &r.Inlet,
		&r.Discharge, &r.Suction, &r.Evaporator, &r.Ambient,
		&r.CompSpeed, &r.WaterSpeed, &r.FanSpeed, &r.Power,
		&r.Current, &r.Hours, &r.Starts, &r.Boost,
	)
	return r, err
}

// historyInsertArgs returns values for every column except id.
func historyInsertArgs(r models.HistoryRow) []any {
	return []any{
		r.TimestampMs, r.Mode, r.Pump,
		r.Case, r.Water, r.Outlet, r.Inlet,
		r.Discharge, r.Suction, r.Evaporator, r.Ambient,
		r.CompSpeed, r.WaterSpeed, r.FanSpeed, r.Power,
		r.Current, r.Hours, r.Starts, r.Boost,
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrHistoryUnavailable, op, err)
}
