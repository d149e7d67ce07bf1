package transport

import (
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// txnPhase tracks progress of one transaction over the channel.
type txnPhase uint8

const (
	phaseIdle txnPhase = iota
	phaseFIFOLoad
	phaseBitFraming
	phaseStart
	phaseWaitIRQ
	phaseLevel
	phaseFIFORead
	phaseDone
)

// Transactor walks a wire.Transaction over the shared channel one
// register command at a time: load the frame into the FIFO, set the bit
// framing, start the transceive, poll the IRQ register and drain the
// response. A byte-index counter gates progress; a step is not complete
// until every byte has produced a completion.
//
// The Transactor submits through a Port, so a suppressed machine simply
// re-issues its current command on a later tick once the token returns.
type Transactor struct {
	port *Port

	// Hook, when set, observes every completed transaction. The engine
	// uses it to feed the protocol logger.
	Hook func(tx, rx []byte, timedOut bool)

	txn   wire.Transaction
	phase txnPhase
	idx   int

	inflight bool
	avail    int

	rx       []byte
	timedOut bool
}

// NewTransactor creates a Transactor submitting through port.
func NewTransactor(port *Port) *Transactor {
	return &Transactor{port: port}
}

// Start begins a new transaction, discarding any previous result.
func (t *Transactor) Start(txn wire.Transaction) {
	t.txn = txn
	t.phase = phaseFIFOLoad
	t.idx = 0
	t.inflight = false
	t.avail = 0
	t.rx = nil
	t.timedOut = false
}

// Active reports whether a transaction is in progress.
func (t *Transactor) Active() bool {
	return t.phase != phaseIdle && t.phase != phaseDone
}

// Result returns the response bytes and whether the card failed to
// answer. Valid once Step has reported done.
func (t *Transactor) Result() (rx []byte, timedOut bool) {
	return t.rx, t.timedOut
}

// Reset abandons the current transaction without touching the channel;
// the engine abandons the channel itself on cancellation.
func (t *Transactor) Reset() {
	t.phase = phaseIdle
	t.inflight = false
	t.rx = nil
	t.timedOut = false
}

// Step advances the transaction by at most one channel command and
// reports whether it has completed. Call once per tick.
func (t *Transactor) Step() bool {
	switch t.phase {
	case phaseIdle:
		return false
	case phaseDone:
		return true
	}

	if t.inflight {
		comp, ok := t.port.Take()
		if !ok {
			return false
		}
		t.inflight = false
		t.consume(comp)
		if t.phase == phaseDone {
			return true
		}
	}

	cmd, ok := t.next()
	if !ok {
		return t.phase == phaseDone
	}
	if err := t.port.Submit(cmd); err != nil {
		// Not granted or channel busy: re-issue on a later tick.
		return false
	}
	t.inflight = true
	return false
}

// next builds the command for the current phase and byte index.
func (t *Transactor) next() (Command, bool) {
	switch t.phase {
	case phaseFIFOLoad:
		return Command{Write: true, Addr: wire.RegFIFOData, Data: t.txn.TX[t.idx]}, true
	case phaseBitFraming:
		return Command{Write: true, Addr: wire.RegBitFraming, Data: t.txn.TxBits & 0x07}, true
	case phaseStart:
		return Command{Write: true, Addr: wire.RegCommand, Data: wire.PCDTransceive}, true
	case phaseWaitIRQ:
		return Command{Addr: wire.RegComIrq}, true
	case phaseLevel:
		return Command{Addr: wire.RegFIFOLevel}, true
	case phaseFIFORead:
		return Command{Addr: wire.RegFIFOData}, true
	default:
		return Command{}, false
	}
}

// consume applies a completion to the current phase.
func (t *Transactor) consume(comp Completion) {
	switch t.phase {
	case phaseFIFOLoad:
		t.idx++
		if t.idx >= len(t.txn.TX) {
			t.phase = phaseBitFraming
		}
	case phaseBitFraming:
		t.phase = phaseStart
	case phaseStart:
		t.phase = phaseWaitIRQ
	case phaseWaitIRQ:
		switch {
		case comp.Data&wire.IrqTimer != 0:
			t.timedOut = true
			t.finish()
		case comp.Data&wire.IrqRx != 0:
			t.phase = phaseLevel
		}
		// Neither bit set: poll again next tick.
	case phaseLevel:
		t.avail = int(comp.Data)
		if t.avail > t.txn.RXLen {
			t.avail = t.txn.RXLen
		}
		if t.avail == 0 {
			t.timedOut = true
			t.finish()
			return
		}
		t.idx = 0
		t.phase = phaseFIFORead
	case phaseFIFORead:
		t.rx = append(t.rx, comp.Data)
		t.idx++
		if t.idx >= t.avail {
			t.finish()
		}
	}
}

// finish marks the transaction complete and notifies the hook once.
func (t *Transactor) finish() {
	t.phase = phaseDone
	if t.Hook != nil {
		t.Hook(t.txn.TX, t.rx, t.timedOut)
	}
}
