package wire

// FailCode classifies a terminal session failure. Every failure ends the
// session; none is retried automatically.
type FailCode uint8

const (
	// FailNone is the zero value; no failure has been recorded.
	FailNone FailCode = 0

	// FailDetectionTimeout indicates the ATQA check failed on every
	// detection retry.
	FailDetectionTimeout FailCode = 1

	// FailCascadeUnsupported indicates the card requires a cascade level
	// beyond single-UID selection.
	FailCascadeUnsupported FailCode = 2

	// FailKeyMismatch indicates the challenge padding check failed: the
	// card does not hold the terminal's PSK.
	FailKeyMismatch FailCode = 3

	// FailCardRejected indicates the card refused the terminal's
	// authentication token.
	FailCardRejected FailCode = 4

	// FailProtocolTimeout indicates the watchdog expired mid-session.
	FailProtocolTimeout FailCode = 5
)

// String returns the failure code name.
func (c FailCode) String() string {
	switch c {
	case FailNone:
		return "NONE"
	case FailDetectionTimeout:
		return "DETECTION_TIMEOUT"
	case FailCascadeUnsupported:
		return "CASCADE_UNSUPPORTED"
	case FailKeyMismatch:
		return "KEY_MISMATCH"
	case FailCardRejected:
		return "CARD_REJECTED"
	case FailProtocolTimeout:
		return "PROTOCOL_TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
