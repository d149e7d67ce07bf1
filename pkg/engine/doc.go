// Package engine drives the Guardian protocol machines.
//
// A single synchronous stepping loop advances everything: one Tick
// moves every external resource one step, re-evaluates channel
// arbitration, then steps the Card Detector and the Authentication
// Controller exactly once. No machine runs ahead of another within a
// tick, and only one protocol session exists at a time.
//
// The engine owns the session lifecycle: it assigns each card session a
// UUID, arms the watchdog when authentication starts, records every
// state transition and exchange to the protocol logger, and publishes
// the session outcome together with the door-control signals
// (auth_success, auth_failed, auth_busy, card_id).
package engine
