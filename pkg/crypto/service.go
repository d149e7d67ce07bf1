package crypto

import "errors"

// Service errors.
var (
	// ErrBusy is returned by Submit while an operation is in flight.
	ErrBusy = errors.New("crypto: operation already in flight")
)

// Op is one block operation request.
type Op struct {
	Mode Mode
	Key  Block
	In   Block
}

// Service models the hardware AES engine as a request/completion
// resource: at most one outstanding operation, result available after a
// fixed number of ticks. Latency 0 completes on the next Tick.
//
// Service is not safe for concurrent use; the engine drives it from the
// single stepping loop.
type Service struct {
	cipher  Cipher
	latency int

	pending   bool
	remaining int
	op        Op

	ready bool
	out   Block
}

// NewService creates a Service backed by cipher with the given
// completion latency in ticks.
func NewService(cipher Cipher, latency int) *Service {
	return &Service{cipher: cipher, latency: latency}
}

// Submit starts a block operation. It fails with ErrBusy if a previous
// operation has not been taken yet.
func (s *Service) Submit(op Op) error {
	if s.pending || s.ready {
		return ErrBusy
	}
	s.pending = true
	s.remaining = s.latency
	s.op = op
	return nil
}

// Tick advances the engine by one step, completing the in-flight
// operation once its latency has elapsed.
func (s *Service) Tick() {
	if !s.pending {
		return
	}
	if s.remaining > 0 {
		s.remaining--
		return
	}
	switch s.op.Mode {
	case ModeDecrypt:
		s.out = s.cipher.DecryptBlock(s.op.Key, s.op.In)
	default:
		s.out = s.cipher.EncryptBlock(s.op.Key, s.op.In)
	}
	s.pending = false
	s.ready = true
}

// Take returns the completed result, consuming it. The second return is
// false while no result is available.
func (s *Service) Take() (Block, bool) {
	if !s.ready {
		return Block{}, false
	}
	s.ready = false
	return s.out, true
}

// Abandon drops any in-flight operation and pending result. The
// watchdog path uses this so a cancelled session never consumes a stale
// completion.
func (s *Service) Abandon() {
	s.pending = false
	s.ready = false
	s.op = Op{}
	s.out = Block{}
}
