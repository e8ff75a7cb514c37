package service

import (
	"context"
	"sync"
	"time"

	"reclaim_control/internal/models"
)

// fakeEventRepo satisfies repository.EventRepo and records calls.
type fakeEventRepo struct {
	mu sync.Mutex

	gotFrom time.Time
	gotTo   time.Time
	gotType string
	calls   int

	events    []models.BoostEvent
	err       error
	appended  []models.BoostEvent
	appendErr error
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.BoostEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.BoostEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

// stateStep is one scripted answer of fakeState.Latest.
type stateStep struct {
	snap models.DeviceSnapshot
	err  error
}

// fakeState replays scripted Latest answers; after the script ends it keeps
// returning the last one.
type fakeState struct {
	mu     sync.Mutex
	steps  []stateStep
	calls  int
	cached *models.DeviceSnapshot
	onRead func(call int)
}

func (f *fakeState) Latest(_ context.Context) (models.DeviceSnapshot, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	i := call - 1
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	step := f.steps[i]
	hook := f.onRead
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return step.snap, step.err
}

func (f *fakeState) Cached() (models.DeviceSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cached == nil {
		return models.DeviceSnapshot{}, false
	}
	return *f.cached, true
}

func (f *fakeState) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type setCall struct {
	key   string
	value any
}

// fakeDevice satisfies DeviceCommander.
type fakeDevice struct {
	mu    sync.Mutex
	sets  []setCall
	err   error
	panic bool
}

func (d *fakeDevice) SetValue(_ context.Context, key string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.panic {
		panic("device exploded")
	}
	d.sets = append(d.sets, setCall{key: key, value: value})
	return d.err
}

func (d *fakeDevice) Sets() []setCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]setCall(nil), d.sets...)
}

// fakeHistoryRepo satisfies repository.History.
type fakeHistoryRepo struct {
	mu sync.Mutex

	rows     []models.HistoryRow
	inserted []models.HistoryRow
	gotQuery models.HistoryQuery
	tables   []string
	deleted  int64
	err      error

	gotBeforeMs int64
}

func (f *fakeHistoryRepo) Insert(_ context.Context, row models.HistoryRow) (models.HistoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.HistoryRow{}, f.err
	}
	row.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, row)
	return row, nil
}

func (f *fakeHistoryRepo) Range(_ context.Context, q models.HistoryQuery) ([]models.HistoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotQuery = q
	if f.err != nil {
		return nil, f.err
	}
	var out []models.HistoryRow
	for _, r := range f.rows {
		if r.TimestampMs < q.StartMs || r.TimestampMs > q.EndMs {
			continue
		}
		if q.SampleRate > 0 && r.ID%q.SampleRate != 0 {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeHistoryRepo) Tables(context.Context) ([]string, error) { return f.tables, f.err }

func (f *fakeHistoryRepo) DeleteRange(context.Context, int64, int64) (int64, error) {
	return f.deleted, f.err
}

func (f *fakeHistoryRepo) DeleteBefore(_ context.Context, beforeMs int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotBeforeMs = beforeMs
	return f.deleted, f.err
}

func (f *fakeHistoryRepo) Inserted() []models.HistoryRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.HistoryRow(nil), f.inserted...)
}
