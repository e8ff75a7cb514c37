package mqttgw

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"reclaim_control/internal/models"
)

// flexBool accepts true/false, 0/1 and their string forms; the device reports the
// pump as an integer.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(s) {
	case "true", "on":
		*b = true
		return nil
	case "false", "off", "", "null":
		*b = false
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	*b = n != 0
	return nil
}

type telemetryDTO struct {
	RequestID  string   `json:"request_id"`
	Mode       string   `json:"mode"`
	Pump       flexBool `json:"pump"`
	Case       float64  `json:"case"`
	Water      float64  `json:"water"`
	Outlet     float64  `json:"outlet"`
	Inlet      float64  `json:"inlet"`
	Discharge  float64  `json:"discharge"`
	Suction    float64  `json:"suction"`
	Evaporator float64  `json:"evaporator"`
	Ambient    float64  `json:"ambient"`
	CompSpeed  float64  `json:"compspeed"`
	WaterSpeed float64  `json:"waterspeed"`
	FanSpeed   float64  `json:"fanspeed"`
	Power      float64  `json:"power"`
	Current    float64  `json:"current"`
	Hours      float64  `json:"hours"`
	Starts     float64  `json:"starts"`
	Boost      flexBool `json:"boost"`
}

func decodeTelemetry(payload []byte) (models.DeviceSnapshot, error) {
	var dto telemetryDTO
	if err := json.Unmarshal(payload, &dto); err != nil {
		return models.DeviceSnapshot{}, err
	}
	return models.DeviceSnapshot{
		Mode:       dto.Mode,
		Pump:       bool(dto.Pump),
		Case:       dto.Case,
		Water:      dto.Water,
		Outlet:     dto.Outlet,
		Inlet:      dto.Inlet,
		Discharge:  dto.Discharge,
		Suction:    dto.Suction,
		Evaporator: dto.Evaporator,
		Ambient:    dto.Ambient,
		CompSpeed:  toInt(dto.CompSpeed),
		WaterSpeed: toInt(dto.WaterSpeed),
		FanSpeed:   toInt(dto.FanSpeed),
		Power:      toInt(dto.Power),
		Current:    dto.Current,
		Hours:      dto.Hours,
		Starts:     dto.Starts,
		Boost:      bool(dto.Boost),
		ReceivedAt: time.Now().UTC(),
		RequestID:  dto.RequestID,
	}, nil
}

func toInt(f float64) int { return int(math.Round(f)) }
