package service

import (
	"context"

	"reclaim_control/internal/models"
)

type MonitoringService struct {
	state StateSource
}

func NewMonitoringService(state StateSource) *MonitoringService {
	return &MonitoringService{state: state}
}

// GetState refreshes and returns the device state, or models.ErrStateUnavailable.
func (s *MonitoringService) GetState(ctx context.Context) (models.DeviceSnapshot, error) {
	return s.state.Latest(ctx)
}

// Cached returns the last known state without contacting the device.
func (s *MonitoringService) Cached() (models.DeviceSnapshot, bool) {
	return s.state.Cached()
}
