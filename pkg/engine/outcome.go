package engine

import (
	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// OutcomeKind is the terminal classification of a session.
type OutcomeKind uint8

const (
	// OutcomePending indicates no outcome has been reached.
	OutcomePending OutcomeKind = iota

	// OutcomeSuccess indicates mutual authentication completed.
	OutcomeSuccess

	// OutcomeFailed indicates the session ended with a failure code.
	OutcomeFailed
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomePending:
		return "PENDING"
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of one card session. CardID is valid only when
// Kind is OutcomeSuccess; FailCode only when Kind is OutcomeFailed.
type Outcome struct {
	Kind     OutcomeKind
	CardID   crypto.Block
	FailCode wire.FailCode
}

// Pending reports whether the session is still in progress.
func (o Outcome) Pending() bool {
	return o.Kind == OutcomePending
}
