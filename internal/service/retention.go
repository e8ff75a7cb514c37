package service

import (
	"context"
	"fmt"
	"time"

	"reclaim_control/internal/logger"

	"github.com/robfig/cron/v3"
)

type historyPruner interface {
	DeleteBefore(ctx context.Context, beforeMs int64) (int64, error)
}

// RetentionJob deletes history older than the retention window on a cron schedule.
type RetentionJob struct {
	history   historyPruner
	retention time.Duration
	schedule  cron.Schedule
	expr      string
	now       func() time.Time
	log       *logger.Logger

	cron *cron.Cron
}

// NewRetentionJob validates expr as a standard five-field cron expression.
func NewRetentionJob(history historyPruner, retention time.Duration, expr string, log *logger.Logger) (*RetentionJob, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cleanup cron %q: %w", expr, err)
	}
	return &RetentionJob{
		history:   history,
		retention: retention,
		schedule:  schedule,
		expr:      expr,
		now:       time.Now,
		log:       logger.OrNop(log).Named("retention"),
	}, nil
}

// RunOnce deletes rows older than now - retention.
func (j *RetentionJob) RunOnce(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.retention).UnixMilli()
	n, err := j.history.DeleteBefore(ctx, cutoff)
	if err != nil {
		j.log.Errorw("history_cleanup_failed", "cutoff_ms", cutoff, "err", err)
		return 0, err
	}
	j.log.Infow("history_cleanup_done", "cutoff_ms", cutoff, "deleted", n)
	return n, nil
}

// Start schedules the cleanup. A zero retention disables it.
func (j *RetentionJob) Start() {
	if j.retention <= 0 {
		j.log.Infow("history_cleanup_disabled")
		return
	}
	j.cron = cron.New()
	j.cron.Schedule(j.schedule, cron.FuncJob(func() {
		_, _ = j.RunOnce(context.Background())
	}))
	j.cron.Start()
	j.log.Infow("history_cleanup_scheduled", "cron", j.expr, "retention", j.retention.String())
}

// Stop halts the scheduler and waits for a running cleanup to finish.
func (j *RetentionJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
