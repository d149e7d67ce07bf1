// Package crypto models the Guardian Chip's AES-128 block engine.
//
// The protocol uses single-block ECB operations only: challenge recovery,
// token construction, session-key derivation and identifier decryption
// each touch exactly one 16-byte block. Cipher is the raw block
// primitive; Service wraps it in the request/completion shape the state
// machines expect from every external resource (one outstanding
// operation, completion after a fixed number of ticks).
package crypto
