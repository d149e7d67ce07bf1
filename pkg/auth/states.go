package auth

// State is the Authentication Controller FSM state.
type State uint8

const (
	// StateIdle waits for the detector's StartAuth pulse.
	StateIdle State = iota

	// StateLoadKey reads the 16 PSK bytes from the key store.
	StateLoadKey

	// StateAuthInitSend transmits AUTH_INIT.
	StateAuthInitSend

	// StateAuthInitRecv waits for the encrypted challenge block.
	StateAuthInitRecv

	// StateDecryptChallenge decrypts the challenge with the PSK.
	StateDecryptChallenge

	// StateCheckPadding verifies the zero padding of the challenge.
	StateCheckPadding

	// StateGenNonce obtains the fresh terminal challenge rt.
	StateGenNonce

	// StateEncryptResponse computes the outbound token AES_psk(rt ‖ rc).
	StateEncryptResponse

	// StateAuthSend transmits AUTH with the token.
	StateAuthSend

	// StateAuthRecv waits for the card's status byte.
	StateAuthRecv

	// StateCheckStatus interprets the status byte.
	StateCheckStatus

	// StateDeriveSessionKey computes AES_psk(rc ‖ rt).
	StateDeriveSessionKey

	// StateGetIDSend transmits GET_ID.
	StateGetIDSend

	// StateGetIDRecv waits for the encrypted identifier block.
	StateGetIDRecv

	// StateDecryptID decrypts the identifier with the session key.
	StateDecryptID

	// StateSuccess pulses auth_success for one tick.
	StateSuccess

	// StateFailed pulses auth_failed for one tick.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateLoadKey:
		return "LOAD_KEY"
	case StateAuthInitSend:
		return "AUTH_INIT_SEND"
	case StateAuthInitRecv:
		return "AUTH_INIT_RECV"
	case StateDecryptChallenge:
		return "DECRYPT_CHALLENGE"
	case StateCheckPadding:
		return "CHECK_PADDING"
	case StateGenNonce:
		return "GEN_NONCE"
	case StateEncryptResponse:
		return "ENCRYPT_RESPONSE"
	case StateAuthSend:
		return "AUTH_SEND"
	case StateAuthRecv:
		return "AUTH_RECV"
	case StateCheckStatus:
		return "CHECK_STATUS"
	case StateDeriveSessionKey:
		return "DERIVE_SESSION_KEY"
	case StateGetIDSend:
		return "GET_ID_SEND"
	case StateGetIDRecv:
		return "GET_ID_RECV"
	case StateDecryptID:
		return "DECRYPT_ID"
	case StateSuccess:
		return "SUCCESS"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Active reports whether the controller holds the channel: any state
// other than idle, terminal pulses included (the channel returns to the
// detector only after the pulse tick).
func (s State) Active() bool {
	return s != StateIdle
}

// Terminal reports whether the state is a session outcome.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}
