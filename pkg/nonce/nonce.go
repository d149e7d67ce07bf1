// Package nonce provides the terminal-challenge source.
//
// The Authentication Controller requests one fresh 64-bit value per
// session; it becomes the rt challenge of the AUTH exchange. CryptoSource
// draws from crypto/rand, FixedSource replays configured values for
// deterministic tests.
package nonce

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
)

// Source errors.
var (
	// ErrBusy is returned by Request while a value is in flight.
	ErrBusy = errors.New("nonce: request already in flight")

	// ErrExhausted is returned by FixedSource once all configured values
	// have been consumed.
	ErrExhausted = errors.New("nonce: fixed source exhausted")
)

// Source produces fresh 64-bit values in the request/completion shape
// shared by all external resources.
type Source interface {
	// Request starts generation of one value.
	Request() error

	// Tick advances the source by one step.
	Tick()

	// Take returns the completed value, consuming it.
	Take() (uint64, bool)

	// Abandon drops any in-flight request and pending value.
	Abandon()
}

// CryptoSource draws values from crypto/rand with a fixed latency in
// ticks.
type CryptoSource struct {
	latency int

	pending   bool
	remaining int

	ready bool
	value uint64
}

// NewCryptoSource creates a CryptoSource with the given latency.
func NewCryptoSource(latency int) *CryptoSource {
	return &CryptoSource{latency: latency}
}

// Request starts generation of one value.
func (s *CryptoSource) Request() error {
	if s.pending || s.ready {
		return ErrBusy
	}
	s.pending = true
	s.remaining = s.latency
	return nil
}

// Tick advances the source, completing the request once its latency has
// elapsed.
func (s *CryptoSource) Tick() {
	if !s.pending {
		return
	}
	if s.remaining > 0 {
		s.remaining--
		return
	}
	var buf [8]byte
	// crypto/rand.Read never fails on supported platforms.
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	s.value = binary.BigEndian.Uint64(buf[:])
	s.pending = false
	s.ready = true
}

// Take returns the completed value, consuming it.
func (s *CryptoSource) Take() (uint64, bool) {
	if !s.ready {
		return 0, false
	}
	s.ready = false
	return s.value, true
}

// Abandon drops any in-flight request and pending value.
func (s *CryptoSource) Abandon() {
	s.pending = false
	s.ready = false
}

// FixedSource replays a configured sequence of values. Tests use it to
// pin the rt challenge.
type FixedSource struct {
	values []uint64
	next   int

	pending bool
	ready   bool
	value   uint64
}

// NewFixedSource creates a FixedSource that yields the given values in
// order.
func NewFixedSource(values ...uint64) *FixedSource {
	return &FixedSource{values: values}
}

// Request starts delivery of the next configured value. The value is
// consumed here, not on completion: an abandoned request still burns its
// value, so a cancelled session can never replay a challenge.
func (s *FixedSource) Request() error {
	if s.pending || s.ready {
		return ErrBusy
	}
	if s.next >= len(s.values) {
		return ErrExhausted
	}
	s.value = s.values[s.next]
	s.next++
	s.pending = true
	return nil
}

// Tick completes the in-flight request.
func (s *FixedSource) Tick() {
	if !s.pending {
		return
	}
	s.pending = false
	s.ready = true
}

// Take returns the completed value, consuming it.
func (s *FixedSource) Take() (uint64, bool) {
	if !s.ready {
		return 0, false
	}
	s.ready = false
	return s.value, true
}

// Abandon drops any in-flight request and pending value.
func (s *FixedSource) Abandon() {
	s.pending = false
	s.ready = false
}

// Compile-time interface satisfaction checks.
var (
	_ Source = (*CryptoSource)(nil)
	_ Source = (*FixedSource)(nil)
)
