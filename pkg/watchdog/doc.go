// Package watchdog bounds the lifetime of an authentication session.
//
// A single down-counter is armed to a fixed tick budget when the
// Authentication Controller leaves idle. If it reaches zero before the
// session ends, Expired pulses for exactly one tick and the controller
// must abort unconditionally. The watchdog is the sole cancellation
// source in the system; nothing else may interrupt a session.
package watchdog
