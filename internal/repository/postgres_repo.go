package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reclaim_control/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the subset of *pgxpool.Pool the Postgres repositories use.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ---- history ----

type HistoryPostgres struct {
	db pgxQuerier
}

func NewHistoryPostgres(db pgxQuerier) *HistoryPostgres { return &HistoryPostgres{db: db} }

var _ History = (*HistoryPostgres)(nil)

const (
	pgInsertHistorySQL = `
		INSERT INTO history (timestamp_ms, mode, pump, case_temp, water, outlet, inlet,
			discharge, suction, evaporator, ambient, compspeed, waterspeed, fanspeed, power,
			current_a, hours, starts, boost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`

	pgSelectHistoryRangeSQL = `SELECT ` + historySelectColumns + `
		FROM history
		WHERE timestamp_ms BETWEEN $1 AND $2 AND ($3 <= 0 OR id % $3 = 0)
		ORDER BY timestamp_ms ASC, id ASC
	`

	pgSelectTablesSQL = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	pgDeleteHistoryRangeSQL  = `DELETE FROM history WHERE timestamp_ms BETWEEN $1 AND $2`
	pgDeleteHistoryBeforeSQL = `DELETE FROM history WHERE timestamp_ms < $1`
)

func (r *HistoryPostgres) Insert(ctx context.Context, row models.HistoryRow) (models.HistoryRow, error) {
	if err := r.db.QueryRow(ctx, pgInsertHistorySQL, historyInsertArgs(row)...).Scan(&row.ID); err != nil {
		return models.HistoryRow{}, unavailable("insert history", err)
	}
	return row, nil
}

func (r *HistoryPostgres) Range(ctx context.Context, q models.HistoryQuery) ([]models.HistoryRow, error) {
	rows, err := r.db.Query(ctx, pgSelectHistoryRangeSQL, q.StartMs, q.EndMs, q.SampleRate)
	if err != nil {
		return nil, unavailable("query history", err)
	}
	defer rows.Close()

	out := make([]models.HistoryRow, 0, 256)
	for rows.Next() {
		row, err := scanHistoryRow(rows)
		if err != nil {
			return nil, unavailable("scan history", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate history", err)
	}
	return out, nil
}

func (r *HistoryPostgres) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, pgSelectTablesSQL)
	if err != nil {
		return nil, unavailable("list tables", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, unavailable("scan table names", err)
	}
	return names, nil
}

func (r *HistoryPostgres) DeleteRange(ctx context.Context, startMs, endMs int64) (int64, error) {
	tag, err := r.db.Exec(ctx, pgDeleteHistoryRangeSQL, startMs, endMs)
	if err != nil {
		return 0, unavailable("delete history range", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HistoryPostgres) DeleteBefore(ctx context.Context, beforeMs int64) (int64, error) {
	tag, err := r.db.Exec(ctx, pgDeleteHistoryBeforeSQL, beforeMs)
	if err != nil {
		return 0, unavailable("delete old history", err)
	}
	return tag.RowsAffected(), nil
}

// ---- boost events ----

type EventPostgres struct {
	db pgxQuerier
}

func NewEventPostgres(db pgxQuerier) *EventPostgres { return &EventPostgres{db: db} }

var _ EventRepo = (*EventPostgres)(nil)

func (r *EventPostgres) Append(ctx context.Context, e models.BoostEvent) error {
	e = normalizeEvent(e)
	_, err := r.db.Exec(ctx, `
		INSERT INTO boost_events (id, occurred_at, type, message, meta)
		VALUES ($1, $2, $3, $4, $5)
	`, e.EventID, e.OccurredAt, e.Type, e.Description, marshalMeta(e.Metadata))
	return err
}

func (r *EventPostgres) List(ctx context.Context, from, to time.Time, typ string) ([]models.BoostEvent, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !from.IsZero() {
		add("occurred_at >= $%d", from.UTC())
	}
	if !to.IsZero() {
		add("occurred_at <= $%d", to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		add("type = $%d", typ)
	}

	q := `SELECT id, occurred_at, type, message, meta FROM boost_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BoostEvent, 0, 64)
	for rows.Next() {
		var ev models.BoostEvent
		var meta *string
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		if meta != nil {
			ev.Metadata = unmarshalMeta(sql.NullString{String: *meta, Valid: true})
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ---- users ----

type UserPostgres struct {
	db pgxQuerier
}

func NewUserPostgres(db pgxQuerier) *UserPostgres { return &UserPostgres{db: db} }

var _ Authorization = (*UserPostgres)(nil)

func (r *UserPostgres) Create(ctx context.Context, username, passwordHash string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	return id, nil
}

func (r *UserPostgres) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
