package transport

import (
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// Responder models whatever answers a transceive: a card in the field,
// or nothing. Exchange receives the transmitted frame and the bit
// framing of its last byte, and reports the card's response. present is
// false when no card answers (RF timeout).
type Responder interface {
	Exchange(tx []byte, txBits uint8) (rx []byte, present bool)
}

// RegisterBus is an in-memory MFRC522-shaped reader. It implements
// Channel with a fixed per-command latency and forwards transceives to
// a Responder. The simulator and the package tests drive the protocol
// against it; a production build swaps in the SPI-backed channel.
type RegisterBus struct {
	regs      [64]uint8
	fifo      []byte
	responder Responder
	latency   int

	pending   bool
	remaining int
	cmd       Command

	ready bool
	comp  Completion
}

// NewRegisterBus creates a bus with the given per-command latency in
// ticks and no card in the field.
func NewRegisterBus(latency int) *RegisterBus {
	b := &RegisterBus{latency: latency}
	b.regs[wire.RegVersion] = 0x92
	return b
}

// SetResponder installs the card model answering transceives. A nil
// responder means an empty field: every transceive times out.
func (b *RegisterBus) SetResponder(r Responder) {
	b.responder = r
}

// Submit starts one register access.
func (b *RegisterBus) Submit(c Command) error {
	if b.pending || b.ready {
		return ErrBusy
	}
	b.pending = true
	b.remaining = b.latency
	b.cmd = c
	return nil
}

// Tick advances the bus, completing the in-flight command once its
// latency has elapsed.
func (b *RegisterBus) Tick() {
	if !b.pending {
		return
	}
	if b.remaining > 0 {
		b.remaining--
		return
	}
	b.comp = b.execute(b.cmd)
	b.pending = false
	b.ready = true
}

// Take returns the completed command, consuming it.
func (b *RegisterBus) Take() (Completion, bool) {
	if !b.ready {
		return Completion{}, false
	}
	b.ready = false
	return b.comp, true
}

// Abandon drops any in-flight command and pending completion.
func (b *RegisterBus) Abandon() {
	b.pending = false
	b.ready = false
}

func (b *RegisterBus) execute(c Command) Completion {
	addr := c.Addr & 0x3F
	if !c.Write {
		switch addr {
		case wire.RegFIFOData:
			var v uint8
			if len(b.fifo) > 0 {
				v = b.fifo[0]
				b.fifo = b.fifo[1:]
			}
			b.regs[wire.RegFIFOLevel] = uint8(len(b.fifo))
			return Completion{OK: true, Data: v}
		case wire.RegFIFOLevel:
			return Completion{OK: true, Data: uint8(len(b.fifo))}
		default:
			return Completion{OK: true, Data: b.regs[addr]}
		}
	}

	switch addr {
	case wire.RegFIFOData:
		b.fifo = append(b.fifo, c.Data)
		b.regs[wire.RegFIFOLevel] = uint8(len(b.fifo))
	case wire.RegCommand:
		b.regs[addr] = c.Data
		if c.Data == wire.PCDTransceive {
			b.transceive()
		}
	default:
		b.regs[addr] = c.Data
	}
	return Completion{OK: true}
}

// transceive sends the FIFO contents to the responder and loads the
// response (or a timer IRQ) back.
func (b *RegisterBus) transceive() {
	tx := b.fifo
	b.fifo = nil
	b.regs[wire.RegComIrq] = 0

	if b.responder == nil {
		b.regs[wire.RegComIrq] |= wire.IrqTimer
		b.regs[wire.RegFIFOLevel] = 0
		return
	}

	txBits := b.regs[wire.RegBitFraming] & 0x07
	rx, present := b.responder.Exchange(tx, txBits)
	if !present || len(rx) == 0 {
		b.regs[wire.RegComIrq] |= wire.IrqTimer
		b.regs[wire.RegFIFOLevel] = 0
		return
	}

	b.fifo = append(b.fifo[:0], rx...)
	b.regs[wire.RegFIFOLevel] = uint8(len(b.fifo))
	b.regs[wire.RegComIrq] |= wire.IrqRx
}

// Compile-time interface satisfaction check.
var _ Channel = (*RegisterBus)(nil)
