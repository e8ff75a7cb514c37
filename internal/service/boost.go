package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"reclaim_control/internal/gateway"
	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"
	"reclaim_control/internal/repository"

	"github.com/google/uuid"
)

// DefaultMaxWaterTempC is the hottest tank temperature at which boost may start.
const DefaultMaxWaterTempC = 55.0

// BoostService is the boost control coordinator. One toggle runs at a time.
type BoostService struct {
	state     StateSource
	device    DeviceCommander
	eventRepo repository.EventRepo
	maxWaterC float64
	log       *logger.Logger

	mu sync.Mutex
}

func NewBoostService(state StateSource, device DeviceCommander, eventRepo repository.EventRepo, maxWaterC float64, log *logger.Logger) *BoostService {
	if maxWaterC <= 0 {
		maxWaterC = DefaultMaxWaterTempC
	}
	return &BoostService{
		state:     state,
		device:    device,
		eventRepo: eventRepo,
		maxWaterC: maxWaterC,
		log:       logger.OrNop(log).Named("boost"),
	}
}

// ToggleFrom toggles away from expectedInitial. BoostUnknown is rejected.
func (s *BoostService) ToggleFrom(ctx context.Context, expectedInitial models.BoostStatus) (models.BoostCommandResult, error) {
	target, err := models.TargetFromInitial(expectedInitial)
	if err != nil {
		return models.BoostCommandResult{}, err
	}
	return s.Toggle(ctx, target), nil
}

// Toggle reads fresh state, checks preconditions, sends the command and reads
// back to verify it. It always returns exactly one result and never retries.
// Cancellation of ctx does not interrupt a toggle in progress.
func (s *BoostService) Toggle(ctx context.Context, target models.BoostTarget) (res models.BoostCommandResult) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("boost_toggle_panic", "target", target.String(), "panic", r)
			res = result(http.StatusInternalServerError, models.BoostUnknown, models.BoostUnknown,
				fmt.Sprintf("Failed to turn %s boost.", target), fmt.Errorf("boost toggle panicked: %v", r))
		}
	}()

	snap, err := s.state.Latest(ctx)
	if err != nil {
		return s.done(target, result(http.StatusInternalServerError, models.BoostUnknown, models.BoostUnknown,
			fmt.Sprintf("Failed to get current state; will not turn boost %s.", target), models.ErrStateUnavailable))
	}

	initial := snap.BoostStatus()
	if initial == target.Status() {
		return s.done(target, result(http.StatusConflict, initial, initial,
			fmt.Sprintf("Boost was already %s; will not turn boost %s.", initial, target), models.ErrPreconditionConflict))
	}

	if target == models.TargetOn {
		if snap.Pump {
			return s.done(target, result(http.StatusConflict, initial, initial,
				"Heater is already running (non-boost); will not turn on boost.", models.ErrPreconditionConflict))
		}
		if snap.Water > s.maxWaterC {
			return s.done(target, result(http.StatusConflict, initial, initial,
				fmt.Sprintf("Water temperature is over %gC; will not turn on boost.", s.maxWaterC), models.ErrPreconditionConflict))
		}
	}

	if err := s.device.SetValue(ctx, gateway.KeyBoost, bool(target)); err != nil {
		// The read-back below decides the outcome.
		s.log.Warnw("boost_set_value_failed", "target", target.String(), "err", err)
	}

	after, err := s.state.Latest(ctx)
	switch {
	case err != nil:
		res = result(http.StatusInternalServerError, initial, models.BoostUnknown,
			"Failed to get updated state; boost status uncertain.", models.ErrStateUnavailable)
	case after.BoostStatus() != target.Status():
		res = result(http.StatusInternalServerError, initial, initial,
			fmt.Sprintf("Failed to turn %s boost.", target), models.ErrVerificationFailed)
	default:
		res = result(http.StatusOK, initial, target.Status(), fmt.Sprintf("Turned %s boost.", target), nil)
	}

	s.audit(ctx, target, res)
	return s.done(target, res)
}

func (s *BoostService) done(target models.BoostTarget, res models.BoostCommandResult) models.BoostCommandResult {
	fields := []any{
		"target", target.String(),
		"initial_status", res.InitialStatus,
		"final_status", res.FinalStatus,
		"status_code", res.StatusCode,
		"detail", res.Detail,
	}
	if res.StatusCode == http.StatusOK {
		s.log.Infow("boost_toggled", fields...)
	} else {
		s.log.Warnw("boost_toggle_rejected", fields...)
	}
	return res
}

// audit records a command attempt. Failures are logged and never change the result.
func (s *BoostService) audit(ctx context.Context, target models.BoostTarget, res models.BoostCommandResult) {
	if s.eventRepo == nil {
		return
	}
	typ := models.EventBoostOff
	if target == models.TargetOn {
		typ = models.EventBoostOn
	}
	err := s.eventRepo.Append(ctx, models.BoostEvent{
		EventID:     uuid.NewString(),
		Type:        typ,
		Description: res.Detail,
		Metadata: map[string]any{
			"initial_status": res.InitialStatus,
			"final_status":   res.FinalStatus,
			"status_code":    res.StatusCode,
		},
	})
	if err != nil {
		s.log.Errorw("boost_audit_failed", "type", typ, "err", err)
	}
}

func result(code int, initial, final models.BoostStatus, detail string, err error) models.BoostCommandResult {
	return models.BoostCommandResult{
		StatusCode:    code,
		InitialStatus: initial,
		FinalStatus:   final,
		Detail:        detail,
		Err:           err,
	}
}
