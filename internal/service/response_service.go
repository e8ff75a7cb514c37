package service

import "time"

// Options carries the tunables services read from config.
type Options struct {
	MaxWaterTempC float64
	SigningKey    string
	TokenTTL      time.Duration
}

// LogFilter supports audit filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "BOOST_ON", "BOOST_OFF"
}

// Recorder states reported by Status.
const (
	RecorderRunning = "running"
	RecorderStopped = "stopped"
)

type RecorderStatus struct {
	Status          string  `json:"status"`
	IntervalSeconds float64 `json:"interval_seconds"`
}
