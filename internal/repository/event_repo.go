package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"reclaim_control/internal/models"

	"github.com/google/uuid"
)

// sqliteTimestampLayout matches SQLite's TIMESTAMP text form.
const sqliteTimestampLayout = "2006-01-02 15:04:05"

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const insertBoostEventSQL = `
		INSERT INTO boost_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`

// normalizeEvent fills EventID/OccurredAt when empty and upper-cases the type.
func normalizeEvent(e models.BoostEvent) models.BoostEvent {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
	return e
}

// marshalMeta returns nil when there is no metadata or it cannot be encoded.
func marshalMeta(meta any) *string {
	if meta == nil {
		return nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// unmarshalMeta decodes stored metadata, keeping the raw text if it is malformed.
func unmarshalMeta(meta sql.NullString) any {
	if !meta.Valid || meta.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(meta.String), &v); err != nil {
		return meta.String
	}
	return v
}

// Append inserts a new event.
func (r *EventSQLite) Append(ctx context.Context, e models.BoostEvent) error {
	e = normalizeEvent(e)
	_, err := r.db.ExecContext(ctx, insertBoostEventSQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimestampLayout),
		e.Type,
		e.Description,
		marshalMeta(e.Metadata),
	)
	return err
}

// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.BoostEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestampLayout))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, message, meta FROM boost_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BoostEvent, 0, 64)
	for rows.Next() {
		var ev models.BoostEvent
		var meta sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.Metadata = unmarshalMeta(meta)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
