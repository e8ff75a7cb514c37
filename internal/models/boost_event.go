package models

import "time"

// Boost audit event types.
const (
	EventBoostOn  = "BOOST_ON"
	EventBoostOff = "BOOST_OFF"
)

// BoostEvent is a single audit entry for a boost command.
type BoostEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // BOOST_ON | BOOST_OFF
	Description string    `json:"description"` // result detail
	Metadata    any       `json:"metadata,omitempty"`
}
