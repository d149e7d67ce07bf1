package detect

import (
	"github.com/layr-protocol/guardian-go/pkg/transport"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// RetryLimit is the number of REQA retries after an ATQA mismatch
// before the session fails with DetectionTimeout.
const RetryLimit = 3

// Session holds what the detector learned about the presented card. It
// is created on the IRQ edge and reset when the machine returns to
// idle.
type Session struct {
	UID     [4]byte
	ATQA    uint16
	SAK     uint8
	Retries int
}

// Outputs are the detector's per-tick output signals. CardReady and
// StartAuth are one-shot pulses; FailCode is valid only alongside
// Failed.
type Outputs struct {
	CardReady bool
	StartAuth bool
	Failed    bool
	FailCode  wire.FailCode
}

// Detector is the card-detection state machine. It owns the card
// session exclusively and drives the shared channel through its port
// while the arbiter grants it.
type Detector struct {
	state   State
	session Session
	txr     *transport.Transactor

	// irqLatch is the single-shot detected flag, set on a rising edge
	// of the external IRQ line and consumed when REQA transmission
	// begins.
	irqLatch bool
	irqLevel bool

	retryLimit int
	failCode   wire.FailCode
}

// NewDetector creates a detector submitting through port.
func NewDetector(port *transport.Port) *Detector {
	return &Detector{
		txr:        transport.NewTransactor(port),
		retryLimit: RetryLimit,
	}
}

// State returns the current FSM state.
func (d *Detector) State() State {
	return d.state
}

// SetExchangeHook installs an observer for completed card exchanges.
func (d *Detector) SetExchangeHook(fn func(tx, rx []byte, timedOut bool)) {
	d.txr.Hook = fn
}

// Session returns the current card session.
func (d *Detector) Session() Session {
	return d.session
}

// SetIRQ samples the external interrupt line. A rising edge latches the
// detected flag; further edges are ignored until the current sequence
// consumes it.
func (d *Detector) SetIRQ(level bool) {
	if level && !d.irqLevel {
		d.irqLatch = true
	}
	d.irqLevel = level
}

// Reset returns the machine to idle and clears the session and latch.
func (d *Detector) Reset() {
	d.state = StateIdle
	d.session = Session{}
	d.irqLatch = false
	d.txr.Reset()
}

// Tick advances the machine by one step.
func (d *Detector) Tick() Outputs {
	switch d.state {
	case StateIdle:
		d.session = Session{}
		d.failCode = wire.FailNone
		if d.irqLatch {
			d.irqLatch = false
			d.state = StateSendReqA
		}

	case StateSendReqA:
		d.txr.Start(wire.ReqA())
		d.state = StateWaitATQA

	case StateWaitATQA:
		if d.txr.Step() {
			d.state = StateCheckATQA
		}

	case StateCheckATQA:
		rx, _ := d.txr.Result()
		atqa, err := wire.ParseATQA(rx)
		d.session.ATQA = atqa
		if err != nil {
			if d.session.Retries >= d.retryLimit {
				return d.fail(wire.FailDetectionTimeout)
			}
			d.session.Retries++
			d.state = StateSendReqA
			break
		}
		d.state = StateSendAnticoll

	case StateSendAnticoll:
		d.txr.Start(wire.Anticoll())
		d.state = StateWaitUID

	case StateWaitUID:
		if d.txr.Step() {
			d.state = StateCheckUID
		}

	case StateCheckUID:
		rx, _ := d.txr.Result()
		uid, err := wire.ParseUID(rx)
		if err != nil {
			// A corrupt anti-collision round is indistinguishable from a
			// failed detection; it consumes a retry like an ATQA mismatch.
			if d.session.Retries >= d.retryLimit {
				return d.fail(wire.FailDetectionTimeout)
			}
			d.session.Retries++
			d.state = StateSendReqA
			break
		}
		d.session.UID = uid
		d.state = StateSendSelect

	case StateSendSelect:
		d.txr.Start(wire.Select(d.session.UID))
		d.state = StateWaitSAK

	case StateWaitSAK:
		if d.txr.Step() {
			d.state = StateCheckSAK
		}

	case StateCheckSAK:
		rx, _ := d.txr.Result()
		sak, err := wire.ParseSAK(rx)
		d.session.SAK = sak
		if err != nil {
			return d.fail(wire.FailCascadeUnsupported)
		}
		d.state = StateCardReady
		return Outputs{CardReady: true, StartAuth: true}

	case StateCardReady:
		// One-shot pulse was emitted on entry; the Authentication
		// Controller owns everything from here.
		d.state = StateIdle

	case StateError:
		d.state = StateIdle
	}

	return Outputs{}
}

func (d *Detector) fail(code wire.FailCode) Outputs {
	d.failCode = code
	d.state = StateError
	return Outputs{Failed: true, FailCode: code}
}
