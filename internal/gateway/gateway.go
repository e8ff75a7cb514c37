// Package gateway defines the connection to the physical heat pump.
package gateway

import (
	"context"

	"reclaim_control/internal/models"
)

// Listener receives every telemetry snapshot the gateway delivers.
type Listener interface {
	OnMessage(s models.DeviceSnapshot)
}

// Gateway maintains a connection to one device.
//
// RequestUpdate asks the device to publish fresh telemetry and reports whether the
// request was accepted by the transport. Telemetry arrives asynchronously through the
// Listener; requestID is echoed back by devices that support correlation.
type Gateway interface {
	Connect(ctx context.Context, l Listener) error
	Disconnect()
	RequestUpdate(ctx context.Context, requestID string) bool
	SetValue(ctx context.Context, key string, value any) error
}

// RequestIDEchoer is implemented by gateways that know whether their device echoes
// request ids. When it does, refreshes accept only replies carrying their own id.
type RequestIDEchoer interface {
	EchoesRequestID() bool
}

// KeyBoost is the device setting toggled by the boost coordinator.
const KeyBoost = "boost"
