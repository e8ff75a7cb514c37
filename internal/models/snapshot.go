package models

import "time"

// DeviceSnapshot is one telemetry reading from the heat pump. Values are never
// mutated after creation; a newer reading is a new snapshot.
type DeviceSnapshot struct {
	Mode       string  `json:"mode"`
	Pump       bool    `json:"pump"`
	Case       float64 `json:"case"`       // °C
	Water      float64 `json:"water"`      // °C
	Outlet     float64 `json:"outlet"`     // °C
	Inlet      float64 `json:"inlet"`      // °C
	Discharge  float64 `json:"discharge"`  // °C
	Suction    float64 `json:"suction"`    // °C
	Evaporator float64 `json:"evaporator"` // °C
	Ambient    float64 `json:"ambient"`    // °C
	CompSpeed  int     `json:"compspeed"`
	WaterSpeed int     `json:"waterspeed"`
	FanSpeed   int     `json:"fanspeed"`
	Power      int     `json:"power"`   // W
	Current    float64 `json:"current"` // A
	Hours      float64 `json:"hours"`
	Starts     float64 `json:"starts"`
	Boost      bool    `json:"boost"`

	// Listener bookkeeping, not part of the device payload.
	ReceivedAt time.Time `json:"-"`
	Seq        uint64    `json:"-"`
	RequestID  string    `json:"-"`
}

// BoostStatus reports the boost flag of a snapshot.
func (s DeviceSnapshot) BoostStatus() BoostStatus {
	if s.Boost {
		return BoostOn
	}
	return BoostOff
}
