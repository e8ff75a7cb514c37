package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reclaim_control/internal/models"
	"reclaim_control/internal/repository"
)

// EventLogService reads the boost audit trail.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// ErrInvalidTimeRange reports a filter whose From is after To.
var ErrInvalidTimeRange = fmt.Errorf("%w: time range from must be <= to", models.ErrInvalidArgument)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	switch eventType {
	case "", models.EventBoostOn, models.EventBoostOff:
	default:
		return time.Time{}, time.Time{}, "", fmt.Errorf("%w: unknown event type %q", models.ErrInvalidArgument, f.Type)
	}
	return from, to, eventType, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.BoostEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, from, to, typ)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.BoostEvent{}
	}
	return events, nil
}
