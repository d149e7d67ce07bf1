// Package detect implements the card-detection state machine.
//
// A rising edge on the reader IRQ line latches a single-shot detected
// flag. The machine then drives the shared channel through the
// ISO14443A selection sequence (REQA, anti-collision, SELECT),
// validating each response: the ATQA must match the expected value
// (with up to three retries), the UID must carry a valid BCC, and the
// SAK must not demand a further cascade level. On success the machine
// pulses CardReady and StartAuth for one tick and hands the channel to
// the Authentication Controller.
package detect
