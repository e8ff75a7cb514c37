package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"
)

var (
	ErrRecorderRunning = errors.New("recorder already running")
	ErrRecorderStopped = errors.New("recorder not running")
)

// MinRecorderInterval is the shortest accepted logging interval.
const MinRecorderInterval = time.Second

type snapshotRecorder interface {
	Record(ctx context.Context, s models.DeviceSnapshot) (models.HistoryRow, error)
}

// RecorderService runs one background worker that samples the device state into
// history. It never sends commands to the device.
type RecorderService struct {
	state   StateSource
	history snapshotRecorder
	log     *logger.Logger

	minInterval time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
}

func NewRecorderService(state StateSource, history snapshotRecorder, log *logger.Logger) *RecorderService {
	return &RecorderService{
		state:       state,
		history:     history,
		log:         logger.OrNop(log).Named("recorder"),
		minInterval: MinRecorderInterval,
	}
}

func (r *RecorderService) Start(interval time.Duration) error {
	if interval < r.minInterval {
		return fmt.Errorf("%w: interval %s is below %s", models.ErrInvalidArgument, interval, r.minInterval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return ErrRecorderRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.interval = interval
	go r.loop(ctx, interval, r.done)

	r.log.Infow("recorder_started", "interval", interval.String())
	return nil
}

// Stop cancels the worker and waits for it to exit.
func (r *RecorderService) Stop() error {
	r.mu.Lock()
	if r.cancel == nil {
		r.mu.Unlock()
		return ErrRecorderStopped
	}
	r.cancel()
	done := r.done
	r.cancel, r.done, r.interval = nil, nil, 0
	r.mu.Unlock()

	<-done
	r.log.Infow("recorder_stopped")
	return nil
}

func (r *RecorderService) Status() RecorderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return RecorderStatus{Status: RecorderStopped}
	}
	return RecorderStatus{Status: RecorderRunning, IntervalSeconds: r.interval.Seconds()}
}

func (r *RecorderService) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.sample(ctx)
		}
	}
}

func (r *RecorderService) sample(ctx context.Context) {
	snap, err := r.state.Latest(ctx)
	if err != nil {
		r.log.Warnw("recorder_state_unavailable", "err", err)
		return
	}
	row, err := r.history.Record(ctx, snap)
	if err != nil {
		r.log.Errorw("recorder_write_failed", "err", err)
		return
	}
	r.log.Debugw("recorder_sample_written", "id", row.ID, "timestamp_ms", row.TimestampMs)
}
