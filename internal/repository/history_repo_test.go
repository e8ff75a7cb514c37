package repository

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"reclaim_control/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var historyColumnNames = []string{
	"id", "timestamp_ms", "mode", "pump", "case_temp", "water", "outlet", "inlet",
	"discharge", "suction", "evaporator", "ambient", "compspeed", "waterspeed", "fanspeed", "power",
	"current_a", "hours", "starts", "boost",
}

func sampleHistoryRow(id, ts int64, water float64, boost bool) []any {
	return []any{id, ts, "Mode 1: 24H", false, 20.0, water, 50.0, 45.0, 70.0, 10.0, 8.0, 15.0, 0, 0, 0, 0, 0.0, 100.0, 12.0, boost}
}

func TestHistoryInsert_ReturnsAssignedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	row := models.HistoryRow{TimestampMs: 1753290000000}
	row.Water = 48.5
	row.Boost = true

	mock.ExpectExec(regexp.QuoteMeta(insertHistorySQL)).
		WithArgs(toDriverArgs(historyInsertArgs(row))...).
		WillReturnResult(sqlmock.NewResult(17, 1))

	got, err := NewHistorySQLite(db).Insert(ctx(t), row)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got.ID != 17 || got.Water != 48.5 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestHistoryInsert_ErrorIsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO history").WillReturnError(errors.New("disk I/O error"))

	_, err = NewHistorySQLite(db).Insert(ctx(t), models.HistoryRow{})
	if !errors.Is(err, models.ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}
}

func TestHistoryRange_PassesSampleRateAndScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(historyColumnNames).
		AddRow(toDriverArgs(sampleHistoryRow(2, 1000, 40, false))...).
		AddRow(toDriverArgs(sampleHistoryRow(4, 2000, 41, true))...)

	mock.ExpectQuery(regexp.QuoteMeta(selectHistoryRangeSQL)).
		WithArgs(int64(0), int64(5000), int64(2), int64(2)).
		WillReturnRows(rows)

	got, err := NewHistorySQLite(db).Range(ctx(t), models.HistoryQuery{StartMs: 0, EndMs: 5000, SampleRate: 2})
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].TimestampMs != 1000 || got[0].Water != 40 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if !got[1].Boost || got[1].Mode != "Mode 1: 24H" {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestHistoryRange_QueryErrorIsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, timestamp_ms").WillReturnError(errors.New("database is locked"))

	_, err = NewHistorySQLite(db).Range(ctx(t), models.HistoryQuery{EndMs: 1})
	if !errors.Is(err, models.ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}
}

func TestHistoryTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectTablesSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("boost_events").AddRow("history").AddRow("users"))

	got, err := NewHistorySQLite(db).Tables(ctx(t))
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(got) != 3 || got[1] != "history" {
		t.Fatalf("unexpected tables: %v", got)
	}
}

func TestHistoryDeleteRange_ReturnsRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(deleteHistoryRangeSQL)).
		WithArgs(int64(100), int64(200)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(deleteHistoryRangeSQL)).
		WithArgs(int64(300), int64(400)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewHistorySQLite(db)
	n, err := repo.DeleteRange(ctx(t), 100, 200)
	if err != nil || n != 3 {
		t.Fatalf("want (3, nil), got (%d, %v)", n, err)
	}
	n, err = repo.DeleteRange(ctx(t), 300, 400)
	if err != nil || n != 0 {
		t.Fatalf("want (0, nil), got (%d, %v)", n, err)
	}
}

func TestHistoryDeleteBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(deleteHistoryBeforeSQL)).
		WithArgs(int64(5000)).
		WillReturnError(errors.New("closed"))

	_, err = NewHistorySQLite(db).DeleteBefore(ctx(t), 5000)
	if !errors.Is(err, models.ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}
}

func toDriverArgs(vals []any) []driver.Value {
	out := make([]driver.Value, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
