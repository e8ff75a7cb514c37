package models

import (
	"errors"
	"fmt"
	"strings"
)

// BoostStatus is the reported boost state. BoostUnknown means "could not determine".
type BoostStatus string

const (
	BoostOn      BoostStatus = "ON"
	BoostOff     BoostStatus = "OFF"
	BoostUnknown BoostStatus = "UNKNOWN"
)

func (s BoostStatus) String() string { return string(s) }

// BoostTarget is a requested boost state. Unlike BoostStatus it has no unknown value.
type BoostTarget bool

const (
	TargetOn  BoostTarget = true
	TargetOff BoostTarget = false
)

// ParseBoostTarget accepts "on"/"off" in any case.
func ParseBoostTarget(s string) (BoostTarget, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(BoostOn):
		return TargetOn, nil
	case string(BoostOff):
		return TargetOff, nil
	default:
		return TargetOff, fmt.Errorf("%w: boost target %q", ErrInvalidArgument, s)
	}
}

// TargetFromInitial returns the target reached by toggling away from initial.
// BoostUnknown is rejected with ErrInvalidArgument.
func TargetFromInitial(initial BoostStatus) (BoostTarget, error) {
	switch initial {
	case BoostOn:
		return TargetOff, nil
	case BoostOff:
		return TargetOn, nil
	default:
		return TargetOff, fmt.Errorf("%w: expected initial status %q", ErrInvalidArgument, initial)
	}
}

func (t BoostTarget) Status() BoostStatus {
	if t {
		return BoostOn
	}
	return BoostOff
}

func (t BoostTarget) Complement() BoostTarget { return !t }

func (t BoostTarget) String() string { return t.Status().String() }

// Error taxonomy for boost transitions.
var (
	ErrStateUnavailable     = errors.New("state unavailable")
	ErrPreconditionConflict = errors.New("precondition conflict")
	ErrVerificationFailed   = errors.New("verification failed")
	ErrInvalidArgument      = errors.New("invalid argument")
)

// BoostCommandResult is the outcome of one toggle attempt.
type BoostCommandResult struct {
	StatusCode    int         `json:"-"`
	InitialStatus BoostStatus `json:"initial_status"`
	FinalStatus   BoostStatus `json:"final_status"`
	Detail        string      `json:"detail"`
	Err           error       `json:"-"` // nil on success
}
