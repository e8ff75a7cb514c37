package service

import (
	"context"
	"time"

	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"
	"reclaim_control/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Boost turns the auxiliary heating element on or off with safety checks.
type Boost interface {
	Toggle(ctx context.Context, target models.BoostTarget) models.BoostCommandResult
	ToggleFrom(ctx context.Context, expectedInitial models.BoostStatus) (models.BoostCommandResult, error)
}

// Monitoring exposes read-only device state.
type Monitoring interface {
	GetState(ctx context.Context) (models.DeviceSnapshot, error)
	Cached() (models.DeviceSnapshot, bool)
}

// History queries and administers recorded snapshots.
type History interface {
	Query(ctx context.Context, q models.HistoryQuery) (models.HistoryColumns, error)
	Tables(ctx context.Context) ([]string, error)
	AddTestData(ctx context.Context) (models.HistoryRow, error)
	DeleteRange(ctx context.Context, startMs, endMs int64) (int64, error)
	Record(ctx context.Context, s models.DeviceSnapshot) (models.HistoryRow, error)
	DeleteBefore(ctx context.Context, beforeMs int64) (int64, error)
}

// Recorder periodically writes the device state to history.
type Recorder interface {
	Start(interval time.Duration) error
	Stop() error
	Status() RecorderStatus
}

// EventLog exposes the boost audit trail with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.BoostEvent, error)
}

// StateSource yields device snapshots. Latest forces a refresh; Cached does not.
type StateSource interface {
	Latest(ctx context.Context) (models.DeviceSnapshot, error)
	Cached() (models.DeviceSnapshot, bool)
}

// DeviceCommander writes a setting to the device.
type DeviceCommander interface {
	SetValue(ctx context.Context, key string, value any) error
}

type Service struct {
	Boost
	Monitoring
	History
	Recorder
	EventLog
	Authorization
}

// NewService wires repositories and the device connection into concrete services.
func NewService(repos *repository.Repository, state StateSource, device DeviceCommander, opts Options, log *logger.Logger) *Service {
	log = logger.OrNop(log)
	history := NewHistoryService(repos.History, state, log)
	return &Service{
		Boost:         NewBoostService(state, device, repos.EventRepo, opts.MaxWaterTempC, log),
		Monitoring:    NewMonitoringService(state),
		History:       history,
		Recorder:      NewRecorderService(state, history, log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}
}
