package service

import (
	"context"
	"fmt"
	"time"

	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"
	"reclaim_control/internal/repository"

	"github.com/samber/lo"
)

type HistoryService struct {
	repo  repository.History
	state StateSource
	now   func() time.Time
	log   *logger.Logger
}

func NewHistoryService(repo repository.History, state StateSource, log *logger.Logger) *HistoryService {
	return &HistoryService{
		repo:  repo,
		state: state,
		now:   time.Now,
		log:   logger.OrNop(log).Named("history"),
	}
}

// historyColumn projects one field of a row into the column-oriented response.
type historyColumn struct {
	name string
	get  func(models.HistoryRow) any
}

var historyColumns = []historyColumn{
	{"timestamp_ms", func(r models.HistoryRow) any { return r.TimestampMs }},
	{"mode", func(r models.HistoryRow) any { return r.Mode }},
	{"pump", func(r models.HistoryRow) any { return r.Pump }},
	{"case", func(r models.HistoryRow) any { return r.Case }},
	{"water", func(r models.HistoryRow) any { return r.Water }},
	{"outlet", func(r models.HistoryRow) any { return r.Outlet }},
	{"inlet", func(r models.HistoryRow) any { return r.Inlet }},
	{"discharge", func(r models.HistoryRow) any { return r.Discharge }},
	{"suction", func(r models.HistoryRow) any { return r.Suction }},
	{"evaporator", func(r models.HistoryRow) any { return r.Evaporator }},
	{"ambient", func(r models.HistoryRow) any { return r.Ambient }},
	{"compspeed", func(r models.HistoryRow) any { return r.CompSpeed }},
	{"waterspeed", func(r models.HistoryRow) any { return r.WaterSpeed }},
	{"fanspeed", func(r models.HistoryRow) any { return r.FanSpeed }},
	{"power", func(r models.HistoryRow) any { return r.Power }},
	{"current", func(r models.HistoryRow) any { return r.Current }},
	{"hours", func(r models.HistoryRow) any { return r.Hours }},
	{"starts", func(r models.HistoryRow) any { return r.Starts }},
	{"boost", func(r models.HistoryRow) any { return r.Boost }},
}

func toColumns(rows []models.HistoryRow) models.HistoryColumns {
	cols := make(models.HistoryColumns, len(historyColumns))
	for _, c := range historyColumns {
		cols[c.name] = lo.Map(rows, func(r models.HistoryRow, _ int) any { return c.get(r) })
	}
	return cols
}

// Query returns rows in [StartMs, EndMs] as columns ordered by timestamp.
func (s *HistoryService) Query(ctx context.Context, q models.HistoryQuery) (models.HistoryColumns, error) {
	if q.EndMs < q.StartMs {
		return nil, fmt.Errorf("%w: end %d before start %d", models.ErrInvalidArgument, q.EndMs, q.StartMs)
	}
	if q.SampleRate < 0 {
		return nil, fmt.Errorf("%w: negative sample rate %d", models.ErrInvalidArgument, q.SampleRate)
	}
	rows, err := s.repo.Range(ctx, q)
	if err != nil {
		return nil, err
	}
	return toColumns(rows), nil
}

func (s *HistoryService) Tables(ctx context.Context) ([]string, error) {
	tables, err := s.repo.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []string{}
	}
	return tables, nil
}

// Record stores a snapshot stamped with its receive time (or now).
func (s *HistoryService) Record(ctx context.Context, snap models.DeviceSnapshot) (models.HistoryRow, error) {
	ts := snap.ReceivedAt
	if ts.IsZero() {
		ts = s.now()
	}
	return s.repo.Insert(ctx, models.HistoryRow{TimestampMs: ts.UnixMilli(), DeviceSnapshot: snap})
}

// AddTestData inserts a synthetic row stamped now, based on the cached state when
// one exists.
func (s *HistoryService) AddTestData(ctx context.Context) (models.HistoryRow, error) {
	snap, ok := models.DeviceSnapshot{}, false
	if s.state != nil {
		snap, ok = s.state.Cached()
	}
	if !ok {
		snap = models.DeviceSnapshot{
			Mode:       "Mode 1: 24H",
			Case:       22.0,
			Water:      48.0,
			Outlet:     50.0,
			Inlet:      45.0,
			Discharge:  70.0,
			Suction:    10.0,
			Evaporator: 8.0,
			Ambient:    15.0,
			Hours:      1.0,
			Starts:     1.0,
		}
	}
	snap.ReceivedAt = s.now()
	row, err := s.Record(ctx, snap)
	if err != nil {
		return models.HistoryRow{}, err
	}
	s.log.Infow("history_test_row_added", "id", row.ID, "timestamp_ms", row.TimestampMs)
	return row, nil
}

// DeleteRange removes rows in [startMs, endMs]; models.ErrNotFound when none matched.
func (s *HistoryService) DeleteRange(ctx context.Context, startMs, endMs int64) (int64, error) {
	if endMs < startMs {
		return 0, fmt.Errorf("%w: end %d before start %d", models.ErrInvalidArgument, endMs, startMs)
	}
	n, err := s.repo.DeleteRange(ctx, startMs, endMs)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no history rows in [%d, %d]", models.ErrNotFound, startMs, endMs)
	}
	s.log.Infow("history_rows_deleted", "start_ms", startMs, "end_ms", endMs, "deleted", n)
	return n, nil
}

func (s *HistoryService) DeleteBefore(ctx context.Context, beforeMs int64) (int64, error) {
	return s.repo.DeleteBefore(ctx, beforeMs)
}
