package transport_test

import (
	"bytes"
	"testing"

	"github.com/layr-protocol/guardian-go/pkg/transport"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// echoResponder answers every transceive with a fixed response.
type echoResponder struct {
	rx      []byte
	present bool

	lastTX     []byte
	lastTxBits uint8
}

func (r *echoResponder) Exchange(tx []byte, txBits uint8) ([]byte, bool) {
	r.lastTX = append([]byte(nil), tx...)
	r.lastTxBits = txBits
	return r.rx, r.present
}

func TestDecide(t *testing.T) {
	cases := []struct {
		detectorReady bool
		authActive    bool
		want          transport.Owner
	}{
		{false, false, transport.OwnerDetector},
		{true, false, transport.OwnerAuth},
		{false, true, transport.OwnerAuth},
		{true, true, transport.OwnerAuth},
	}
	for _, c := range cases {
		if got := transport.Decide(c.detectorReady, c.authActive); got != c.want {
			t.Errorf("Decide(%v, %v) = %v, want %v", c.detectorReady, c.authActive, got, c.want)
		}
	}
}

func TestPortTokenEnforcement(t *testing.T) {
	bus := transport.NewRegisterBus(0)
	arb := transport.NewArbiter(bus)
	det := arb.Port(transport.OwnerDetector)
	auth := arb.Port(transport.OwnerAuth)

	if err := auth.Submit(transport.Command{Addr: wire.RegVersion}); err != transport.ErrNotGranted {
		t.Fatalf("non-owner Submit = %v, want ErrNotGranted", err)
	}

	if err := det.Submit(transport.Command{Addr: wire.RegVersion}); err != nil {
		t.Fatalf("owner Submit failed: %v", err)
	}
	bus.Tick()

	// A completion is invisible to the non-owner and must not be consumed
	// by it.
	if _, ok := auth.Take(); ok {
		t.Fatal("non-owner consumed a completion")
	}
	comp, ok := det.Take()
	if !ok {
		t.Fatal("owner did not receive the completion")
	}
	if !comp.OK || comp.Data != 0x92 {
		t.Fatalf("version read = %+v, want OK data 92", comp)
	}
}

func TestOwnerTransferAbandonsInFlight(t *testing.T) {
	bus := transport.NewRegisterBus(2)
	arb := transport.NewArbiter(bus)
	det := arb.Port(transport.OwnerDetector)
	auth := arb.Port(transport.OwnerAuth)

	if err := det.Submit(transport.Command{Addr: wire.RegVersion}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	arb.SetOwner(transport.OwnerAuth)
	if arb.Owner() != transport.OwnerAuth {
		t.Fatalf("owner = %v, want AUTH", arb.Owner())
	}

	// The in-flight read was dropped; the new owner starts clean.
	for i := 0; i < 5; i++ {
		bus.Tick()
	}
	if _, ok := auth.Take(); ok {
		t.Fatal("stale completion leaked to the new owner")
	}
	if err := auth.Submit(transport.Command{Addr: wire.RegVersion}); err != nil {
		t.Fatalf("Submit by new owner failed: %v", err)
	}
}

func TestRegisterBusFIFO(t *testing.T) {
	bus := transport.NewRegisterBus(0)

	step := func(c transport.Command) transport.Completion {
		t.Helper()
		if err := bus.Submit(c); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		bus.Tick()
		comp, ok := bus.Take()
		if !ok {
			t.Fatal("completion not ready")
		}
		return comp
	}

	step(transport.Command{Write: true, Addr: wire.RegFIFOData, Data: 0x11})
	step(transport.Command{Write: true, Addr: wire.RegFIFOData, Data: 0x22})
	if comp := step(transport.Command{Addr: wire.RegFIFOLevel}); comp.Data != 2 {
		t.Fatalf("FIFO level = %d, want 2", comp.Data)
	}
	if comp := step(transport.Command{Addr: wire.RegFIFOData}); comp.Data != 0x11 {
		t.Fatalf("FIFO pop = %02x, want 11", comp.Data)
	}
	if comp := step(transport.Command{Addr: wire.RegFIFOLevel}); comp.Data != 1 {
		t.Fatalf("FIFO level after pop = %d, want 1", comp.Data)
	}
}

// runTransaction drives a transactor to completion against the bus.
func runTransaction(t *testing.T, bus *transport.RegisterBus, txr *transport.Transactor, txn wire.Transaction) {
	t.Helper()
	txr.Start(txn)
	for i := 0; i < 200; i++ {
		bus.Tick()
		if txr.Step() {
			return
		}
	}
	t.Fatal("transaction did not complete within 200 ticks")
}

func TestTransactorExchange(t *testing.T) {
	bus := transport.NewRegisterBus(0)
	card := &echoResponder{rx: []byte{0x04, 0x00}, present: true}
	bus.SetResponder(card)
	arb := transport.NewArbiter(bus)
	txr := transport.NewTransactor(arb.Port(transport.OwnerDetector))

	var hookTX, hookRX []byte
	var hookTimedOut bool
	hooks := 0
	txr.Hook = func(tx, rx []byte, timedOut bool) {
		hookTX = append([]byte(nil), tx...)
		hookRX = append([]byte(nil), rx...)
		hookTimedOut = timedOut
		hooks++
	}

	runTransaction(t, bus, txr, wire.ReqA())

	rx, timedOut := txr.Result()
	if timedOut {
		t.Fatal("exchange reported timeout with a card present")
	}
	if !bytes.Equal(rx, []byte{0x04, 0x00}) {
		t.Fatalf("rx = %x, want 0400", rx)
	}
	if !bytes.Equal(card.lastTX, []byte{0x26}) {
		t.Fatalf("card saw tx = %x, want 26", card.lastTX)
	}
	if card.lastTxBits != 7 {
		t.Fatalf("card saw txBits = %d, want 7", card.lastTxBits)
	}
	if hooks != 1 {
		t.Fatalf("hook fired %d times, want 1", hooks)
	}
	if !bytes.Equal(hookTX, []byte{0x26}) || !bytes.Equal(hookRX, rx) || hookTimedOut {
		t.Fatalf("hook saw tx=%x rx=%x timedOut=%v", hookTX, hookRX, hookTimedOut)
	}
}

func TestTransactorTimeout(t *testing.T) {
	bus := transport.NewRegisterBus(0)
	arb := transport.NewArbiter(bus)
	txr := transport.NewTransactor(arb.Port(transport.OwnerDetector))

	runTransaction(t, bus, txr, wire.ReqA())

	rx, timedOut := txr.Result()
	if !timedOut {
		t.Fatal("empty field did not time out")
	}
	if len(rx) != 0 {
		t.Fatalf("rx = %x, want empty", rx)
	}
}

func TestTransactorSuppressedThenGranted(t *testing.T) {
	bus := transport.NewRegisterBus(0)
	bus.SetResponder(&echoResponder{rx: []byte{0x04, 0x00}, present: true})
	arb := transport.NewArbiter(bus)
	arb.SetOwner(transport.OwnerAuth)
	txr := transport.NewTransactor(arb.Port(transport.OwnerDetector))

	// Without the token the transactor spins without touching the bus.
	txr.Start(wire.ReqA())
	for i := 0; i < 10; i++ {
		bus.Tick()
		if txr.Step() {
			t.Fatal("suppressed transaction completed")
		}
	}

	// Once granted, the same transaction runs to completion.
	arb.SetOwner(transport.OwnerDetector)
	for i := 0; i < 200; i++ {
		bus.Tick()
		if txr.Step() {
			rx, timedOut := txr.Result()
			if timedOut || !bytes.Equal(rx, []byte{0x04, 0x00}) {
				t.Fatalf("rx=%x timedOut=%v after grant", rx, timedOut)
			}
			return
		}
	}
	t.Fatal("transaction did not complete after grant")
}

func TestTransactorReset(t *testing.T) {
	bus := transport.NewRegisterBus(0)
	arb := transport.NewArbiter(bus)
	txr := transport.NewTransactor(arb.Port(transport.OwnerDetector))

	txr.Start(wire.ReqA())
	if !txr.Active() {
		t.Fatal("transactor not active after Start")
	}
	txr.Reset()
	if txr.Active() {
		t.Fatal("transactor active after Reset")
	}
	if txr.Step() {
		t.Fatal("Step reported completion after Reset")
	}
}
