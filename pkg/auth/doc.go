// Package auth implements the Authenticated Identification Protocol
// state machine.
//
// On the detector's StartAuth pulse the controller re-reads the 16-byte
// PSK from the key store, then runs the three-message exchange over the
// shared channel:
//
//  1. AUTH_INIT  → card answers AES_psk(rc ‖ 0⁶⁴)
//  2. AUTH(AES_psk(rt ‖ rc)) → card answers one status byte
//  3. GET_ID → card answers AES_k(card_id), k = AES_psk(rc ‖ rt)
//
// The zero padding recovered in step 1 is the only evidence that both
// sides hold the same key; a non-zero lower half is a definitive,
// non-retryable rejection. The session key is derived exactly once per
// session and never persisted; the whole protocol context is zeroed on
// every return to idle.
//
// Only the timeout watchdog may cancel a session. Its signal is
// absolute: the controller moves to Failed on the next tick and
// abandons whatever request was in flight.
package auth
