// Package simulator provides an in-process heat pump that speaks the gateway
// interface. It is used for local runs without a broker and in tests.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reclaim_control/internal/gateway"
	"reclaim_control/internal/logger"
	"reclaim_control/internal/models"
)

// ----------- Simulation constants -----------
const (
	AmbientC           = 15.0  // ambient temperature °C
	SetpointC          = 55.0  // heat pump stops here
	HysteresisC        = 5.0   // heat pump restarts below SetpointC - HysteresisC
	BoostCutoffC       = 65.0  // boost element clears itself here
	HeatPumpCPerSec    = 0.02  // °C per second while the compressor runs
	BoostCPerSec       = 0.05  // °C per second with the boost element on
	StandbyLossCPerSec = 0.002 // °C per second tank loss when idle

	HeatPumpPowerW = 1200
	BoostPowerW    = 3000
	MainsVoltage   = 230.0

	DefaultMode = "Mode 1: 24H"
)

type Config struct {
	InitialWaterC float64
	// EchoRequestID makes refresh replies carry the caller's token.
	EchoRequestID bool
	// Latency delays every published reading.
	Latency time.Duration
}

// Device is a simulated heat pump water heater.
type Device struct {
	cfg Config
	log *logger.Logger

	mu        sync.Mutex
	state     models.DeviceSnapshot
	updatedAt time.Time
	listener  gateway.Listener
	connected bool
}

var (
	_ gateway.Gateway         = (*Device)(nil)
	_ gateway.RequestIDEchoer = (*Device)(nil)
)

func New(cfg Config, log *logger.Logger) *Device {
	water := cfg.InitialWaterC
	if water == 0 {
		water = SetpointC - 1
	}
	return &Device{
		cfg: cfg,
		log: logger.OrNop(log).Named("simulator"),
		state: models.DeviceSnapshot{
			Mode:    DefaultMode,
			Water:   water,
			Case:    AmbientC,
			Ambient: AmbientC,
		},
		updatedAt: time.Now(),
	}
}

func (d *Device) Connect(_ context.Context, l gateway.Listener) error {
	d.mu.Lock()
	d.listener = l
	d.connected = true
	d.mu.Unlock()
	d.log.Infow("simulator_connected")
	d.publish("")
	return nil
}

func (d *Device) Disconnect() {
	d.mu.Lock()
	d.connected = false
	d.listener = nil
	d.mu.Unlock()
	d.log.Infow("simulator_disconnected")
}

func (d *Device) EchoesRequestID() bool { return d.cfg.EchoRequestID }

// RequestUpdate schedules an asynchronous reading, like a real device would.
func (d *Device) RequestUpdate(_ context.Context, requestID string) bool {
	d.mu.Lock()
	connected := d.connected
	d.mu.Unlock()
	if !connected {
		return false
	}
	if !d.cfg.EchoRequestID {
		requestID = ""
	}
	go func() {
		if d.cfg.Latency > 0 {
			time.Sleep(d.cfg.Latency)
		}
		d.publish(requestID)
	}()
	return true
}

func (d *Device) SetValue(_ context.Context, key string, value any) error {
	if key != gateway.KeyBoost {
		return fmt.Errorf("simulator: unsupported key %q", key)
	}
	on, ok := value.(bool)
	if !ok {
		return fmt.Errorf("simulator: boost value must be bool, got %T", value)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.connected {
		return fmt.Errorf("simulator: not connected")
	}
	d.state.Boost = on
	d.refreshDerived()
	d.log.Infow("simulator_value_set", "key", key, "value", on)
	return nil
}

// Run advances the model every tick and publishes unsolicited telemetry until ctx
// is canceled.
func (d *Device) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			d.mu.Lock()
			elapsed := now.Sub(d.updatedAt).Seconds()
			d.advance(elapsed)
			d.updatedAt = now
			d.publishLocked("")
			d.mu.Unlock()
		}
	}
}

func (d *Device) publish(requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishLocked(requestID)
}

// publishLocked delivers the current state while d.mu is held, so a reading taken
// before SetValue is never delivered after it returns. Listeners must not call back
// into the device.
func (d *Device) publishLocked(requestID string) {
	if d.listener == nil {
		return
	}
	snap := d.state
	snap.ReceivedAt = time.Now().UTC()
	snap.RequestID = requestID
	d.listener.OnMessage(snap)
}

// advance moves the model forward by elapsed seconds. Callers hold d.mu.
func (d *Device) advance(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	st := &d.state

	switch {
	case st.Boost:
		st.Water = minFloat(st.Water+BoostCPerSec*elapsed, BoostCutoffC)
		if st.Water >= BoostCutoffC {
			st.Boost = false
			d.log.Debugw("simulator_boost_cutoff", "water", st.Water)
		}
	case st.Pump:
		st.Water = minFloat(st.Water+HeatPumpCPerSec*elapsed, SetpointC)
		st.Hours += elapsed / 3600
		if st.Water >= SetpointC {
			st.Pump = false
		}
	default:
		st.Water = maxFloat(st.Water-StandbyLossCPerSec*elapsed, AmbientC)
		if st.Water < SetpointC-HysteresisC {
			st.Pump = true
			st.Starts++
		}
	}
	d.refreshDerived()
}

// refreshDerived recomputes readings that follow from pump/boost state. Callers hold d.mu.
func (d *Device) refreshDerived() {
	st := &d.state
	st.Power = 0
	st.CompSpeed, st.FanSpeed, st.WaterSpeed = 0, 0, 0
	st.Inlet, st.Outlet = st.Water, st.Water
	st.Discharge, st.Suction, st.Evaporator = AmbientC, AmbientC, AmbientC

	if st.Pump {
		st.Power += HeatPumpPowerW
		st.CompSpeed, st.FanSpeed, st.WaterSpeed = 60, 45, 30
		st.Outlet = st.Water + 5
		st.Discharge = st.Water + 25
		st.Suction = AmbientC - 5
		st.Evaporator = AmbientC - 8
	}
	if st.Boost {
		st.Power += BoostPowerW
	}
	st.Current = float64(st.Power) / MainsVoltage
}

// helpers
func minFloat(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}
