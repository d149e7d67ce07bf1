package keystore

import "errors"

// PSKBase is the EEPROM address of the first PSK byte.
const PSKBase uint8 = 0x00

// PSKLen is the pre-shared key length in bytes.
const PSKLen = 16

// Store errors.
var (
	// ErrBusy is returned by Submit while a read is in flight.
	ErrBusy = errors.New("keystore: read already in flight")

	// ErrBadAddress is returned for addresses outside the 7-bit range.
	ErrBadAddress = errors.New("keystore: address out of range")
)

// Store is a byte-addressable read-only key storage resource. Reads
// follow the request/completion shape shared by all external resources:
// one outstanding request, result consumed via Take.
type Store interface {
	// Submit starts a read of one byte at a 7-bit address.
	Submit(addr uint8) error

	// Tick advances the store by one step.
	Tick()

	// Take returns the completed read, consuming it.
	Take() (uint8, bool)

	// Abandon drops any in-flight read and pending result.
	Abandon()
}

// EEPROM is an in-memory AT25010-shaped store: 128 bytes, fixed read
// latency in ticks.
type EEPROM struct {
	mem     [128]byte
	latency int

	pending   bool
	remaining int
	addr      uint8

	ready bool
	data  uint8
}

// NewEEPROM creates an EEPROM with all bytes erased (0xFF) and the given
// read latency in ticks.
func NewEEPROM(latency int) *EEPROM {
	e := &EEPROM{latency: latency}
	for i := range e.mem {
		e.mem[i] = 0xFF
	}
	return e
}

// Write stores a byte at addr. Used by provisioning and tests; the
// protocol core never writes.
func (e *EEPROM) Write(addr uint8, data uint8) error {
	if addr >= uint8(len(e.mem)) {
		return ErrBadAddress
	}
	e.mem[addr] = data
	return nil
}

// WriteKey stores a 16-byte key starting at base.
func (e *EEPROM) WriteKey(base uint8, key [PSKLen]byte) error {
	if int(base)+PSKLen > len(e.mem) {
		return ErrBadAddress
	}
	copy(e.mem[base:], key[:])
	return nil
}

// Submit starts a read of the byte at addr.
func (e *EEPROM) Submit(addr uint8) error {
	if addr >= uint8(len(e.mem)) {
		return ErrBadAddress
	}
	if e.pending || e.ready {
		return ErrBusy
	}
	e.pending = true
	e.remaining = e.latency
	e.addr = addr
	return nil
}

// Tick advances the store, completing the in-flight read once its
// latency has elapsed.
func (e *EEPROM) Tick() {
	if !e.pending {
		return
	}
	if e.remaining > 0 {
		e.remaining--
		return
	}
	e.data = e.mem[e.addr]
	e.pending = false
	e.ready = true
}

// Take returns the completed read, consuming it.
func (e *EEPROM) Take() (uint8, bool) {
	if !e.ready {
		return 0, false
	}
	e.ready = false
	return e.data, true
}

// Abandon drops any in-flight read and pending result.
func (e *EEPROM) Abandon() {
	e.pending = false
	e.ready = false
}

// Compile-time interface satisfaction check.
var _ Store = (*EEPROM)(nil)
