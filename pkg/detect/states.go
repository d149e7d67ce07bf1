package detect

// State is the detector FSM state.
type State uint8

const (
	// StateIdle waits for a latched IRQ edge.
	StateIdle State = iota

	// StateSendReqA transmits the REQA short frame.
	StateSendReqA

	// StateWaitATQA waits for the ATQA response.
	StateWaitATQA

	// StateCheckATQA validates the ATQA against the expected value.
	StateCheckATQA

	// StateSendAnticoll transmits the anti-collision frame.
	StateSendAnticoll

	// StateWaitUID waits for the UID response.
	StateWaitUID

	// StateCheckUID latches the UID and verifies its BCC.
	StateCheckUID

	// StateSendSelect transmits the SELECT frame.
	StateSendSelect

	// StateWaitSAK waits for the SAK response.
	StateWaitSAK

	// StateCheckSAK validates the SAK cascade bit.
	StateCheckSAK

	// StateCardReady pulses CardReady/StartAuth for one tick.
	StateCardReady

	// StateError pulses the failure code for one tick.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSendReqA:
		return "SEND_REQA"
	case StateWaitATQA:
		return "WAIT_ATQA"
	case StateCheckATQA:
		return "CHECK_ATQA"
	case StateSendAnticoll:
		return "SEND_ANTICOLL"
	case StateWaitUID:
		return "WAIT_UID"
	case StateCheckUID:
		return "CHECK_UID"
	case StateSendSelect:
		return "SEND_SELECT"
	case StateWaitSAK:
		return "WAIT_SAK"
	case StateCheckSAK:
		return "CHECK_SAK"
	case StateCardReady:
		return "CARD_READY"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Ready reports whether the detector has completed selection and is
// handing off to the Authentication Controller. The arbiter treats this
// as the hand-off point.
func (s State) Ready() bool {
	return s == StateCardReady
}
