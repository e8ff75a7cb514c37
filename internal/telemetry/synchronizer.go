package telemetry

import (
	"context"
	"time"

	"reclaim_control/internal/gateway"
	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"

	"github.com/google/uuid"
)

const DefaultRefreshTimeout = 5 * time.Second

// Synchronizer requests a refresh from the device and waits for the reply.
type Synchronizer struct {
	gw       gateway.Gateway
	listener *Listener
	timeout  time.Duration
	log      *logger.Logger

	// requireToken rejects untagged replies; set for devices that echo request ids.
	requireToken bool
	newToken     func() string
}

func NewSynchronizer(gw gateway.Gateway, l *Listener, timeout time.Duration, log *logger.Logger) *Synchronizer {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	s := &Synchronizer{
		gw:       gw,
		listener: l,
		timeout:  timeout,
		log:      logger.OrNop(log).Named("sync"),
		newToken: uuid.NewString,
	}
	if e, ok := gw.(gateway.RequestIDEchoer); ok {
		s.requireToken = e.EchoesRequestID()
	}
	return s
}

// Latest triggers a refresh and returns the first reply to it. A reply carries our
// token, or no token at all when the device does not echo them. Any failure yields
// models.ErrStateUnavailable. No retries.
func (s *Synchronizer) Latest(ctx context.Context) (models.DeviceSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	token := s.newToken()
	// Register before asking so a fast reply is not missed.
	replies, done := s.listener.Await(token, !s.requireToken)
	defer done()

	if !s.gw.RequestUpdate(ctx, token) {
		s.log.Warnw("refresh_request_failed", "request_id", token)
		return models.DeviceSnapshot{}, models.ErrStateUnavailable
	}

	select {
	case snap := <-replies:
		return snap, nil
	case <-ctx.Done():
		s.log.Warnw("refresh_timeout", "request_id", token, "require_token", s.requireToken, "err", ctx.Err())
		return models.DeviceSnapshot{}, models.ErrStateUnavailable
	}
}

// Cached returns the listener's snapshot without contacting the device.
func (s *Synchronizer) Cached() (models.DeviceSnapshot, bool) {
	return s.listener.Latest()
}
