package repository

import (
	"context"
	"database/sql"

	"reclaim_control/internal/models"
)

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite {
	return &HistorySQLite{db: db}
}

var _ History = (*HistorySQLite)(nil)

const (
	insertHistorySQL = `
		INSERT INTO history (timestamp_ms, mode, pump, case_temp, water, outlet, inlet,
			discharge, suction, evaporator, ambient, compspeed, waterspeed, fanspeed, power,
			current_a, hours, starts, boost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectHistoryRangeSQL = `SELECT ` + historySelectColumns + `
		FROM history
		WHERE timestamp_ms >= ? AND timestamp_ms <= ? AND (? <= 0 OR id % ? = 0)
		ORDER BY timestamp_ms ASC, id ASC
	`

	selectTablesSQL = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	deleteHistoryRangeSQL  = `DELETE FROM history WHERE timestamp_ms >= ? AND timestamp_ms <= ?`
	deleteHistoryBeforeSQL = `DELETE FROM history WHERE timestamp_ms < ?`
)

// Insert stores one row and returns it with the assigned id.
func (r *HistorySQLite) Insert(ctx context.Context, row models.HistoryRow) (models.HistoryRow, error) {
	res, err := r.db.ExecContext(ctx, insertHistorySQL, historyInsertArgs(row)...)
	if err != nil {
		return models.HistoryRow{}, unavailable("insert history", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.HistoryRow{}, unavailable("history last insert id", err)
	}
	row.ID = id
	return row, nil
}

// Range returns rows with StartMs <= timestamp_ms <= EndMs ordered by timestamp.
func (r *HistorySQLite) Range(ctx context.Context, q models.HistoryQuery) ([]models.HistoryRow, error) {
	rows, err := r.db.QueryContext(ctx, selectHistoryRangeSQL, q.StartMs, q.EndMs, q.SampleRate, q.SampleRate)
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

func (r *HistorySQLite) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectTablesSQL)
	if err != nil {
		return nil, unavailable("list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable("scan table name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate tables", err)
	}
	return names, nil
}

// DeleteRange removes rows with startMs <= timestamp_ms <= endMs.
func (r *HistorySQLite) DeleteRange(ctx context.Context, startMs, endMs int64) (int64, error) {
	return r.exec(ctx, "delete history range", deleteHistoryRangeSQL, startMs, endMs)
}

// DeleteBefore removes rows older than beforeMs.
func (r *HistorySQLite) DeleteBefore(ctx context.Context, beforeMs int64) (int64, error) {
	return r.exec(ctx, "delete old history", deleteHistoryBeforeSQL, beforeMs)
}

func (r *HistorySQLite) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, unavailable(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable(op, err)
	}
	return n, nil
}
