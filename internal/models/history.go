package models

import "errors"

// HistoryRow is one persisted snapshot.
type HistoryRow struct {
	ID          int64 `json:"id"`
	TimestampMs int64 `json:"timestamp_ms"`
	DeviceSnapshot
}

// HistoryColumns maps a column name to its values ordered by timestamp.
type HistoryColumns map[string][]any

// HistoryQuery selects rows with Start <= timestamp_ms <= End.
// SampleRate > 0 keeps only rows whose id is divisible by it.
type HistoryQuery struct {
	StartMs    int64
	EndMs      int64
	SampleRate int64
}

// History store errors.
var (
	ErrHistoryUnavailable = errors.New("history store unavailable")
	ErrNotFound           = errors.New("not found")
)
