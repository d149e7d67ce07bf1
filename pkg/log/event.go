package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the card session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// UID is the card UID in hex, populated once anti-collision has
	// completed.
	UID string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Exchange    *ExchangeEvent    `cbor:"10,keyasint,omitempty"` // Wire layer
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Machine transitions
	Outcome     *OutcomeEvent     `cbor:"12,keyasint,omitempty"` // Session outcomes
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerWire is the card-exchange layer (frames in and out).
	LayerWire Layer = 0
	// LayerSession is the state-machine/session layer.
	LayerSession Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerWire:
		return "WIRE"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryExchange is a completed card exchange.
	CategoryExchange Category = 0
	// CategoryState is a state-machine transition.
	CategoryState Category = 1
	// CategoryOutcome is a terminal session outcome.
	CategoryOutcome Category = 2
	// CategoryError is an error at any layer.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryExchange:
		return "EXCHANGE"
	case CategoryState:
		return "STATE"
	case CategoryOutcome:
		return "OUTCOME"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Machine identifies which state machine produced a transition.
type Machine uint8

const (
	// MachineDetector is the card-detection machine.
	MachineDetector Machine = 0
	// MachineAuth is the Authentication Controller.
	MachineAuth Machine = 1
)

// String returns the machine name.
func (m Machine) String() string {
	switch m {
	case MachineDetector:
		return "DETECTOR"
	case MachineAuth:
		return "AUTH"
	default:
		return "UNKNOWN"
	}
}

// ExchangeEvent captures one complete card exchange. Payloads are the
// raw frame bytes; everything security-relevant in them is ciphertext.
type ExchangeEvent struct {
	// TX is the transmitted frame.
	TX []byte `cbor:"1,keyasint"`

	// RX is the response, empty on timeout.
	RX []byte `cbor:"2,keyasint,omitempty"`

	// TimedOut is true when no card answered.
	TimedOut bool `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures a state-machine transition.
type StateChangeEvent struct {
	// Machine that transitioned.
	Machine Machine `cbor:"1,keyasint"`

	// OldState is the state before the transition.
	OldState string `cbor:"2,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"3,keyasint"`
}

// OutcomeEvent captures a terminal session outcome. The card identifier
// is deliberately not recorded.
type OutcomeEvent struct {
	// Success is true when authentication completed.
	Success bool `cbor:"1,keyasint"`

	// FailCode names the failure, empty on success.
	FailCode string `cbor:"2,keyasint,omitempty"`

	// Ticks is the session length in engine ticks.
	Ticks uint64 `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Context describes what was happening.
	Context string `cbor:"3,keyasint,omitempty"`
}
