package detect_test

import (
	"testing"

	"github.com/layr-protocol/guardian-go/pkg/cardsim"
	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/detect"
	"github.com/layr-protocol/guardian-go/pkg/transport"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

var (
	testUID = [4]byte{0x12, 0x34, 0x56, 0x78}
	testPSK = crypto.Concat(0x2b7e151628aed2a6, 0xabf7158809cf4f3c)
	testID  = crypto.Concat(0x0011223344556677, 0x8899aabbccddeeff)
)

type harness struct {
	bus *transport.RegisterBus
	det *detect.Detector
}

func newHarness() *harness {
	bus := transport.NewRegisterBus(0)
	arb := transport.NewArbiter(bus)
	return &harness{
		bus: bus,
		det: detect.NewDetector(arb.Port(transport.OwnerDetector)),
	}
}

// runUntilPulse ticks the harness until the detector emits a one-shot
// output.
func (h *harness) runUntilPulse(t *testing.T, maxTicks int) detect.Outputs {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		h.bus.Tick()
		out := h.det.Tick()
		if out.CardReady || out.Failed {
			return out
		}
	}
	t.Fatalf("no detector pulse within %d ticks", maxTicks)
	return detect.Outputs{}
}

// countingResponder counts REQA frames on their way to the card.
type countingResponder struct {
	inner transport.Responder
	reqas int
}

func (r *countingResponder) Exchange(tx []byte, txBits uint8) ([]byte, bool) {
	if len(tx) == 1 && tx[0] == wire.PICCReqA {
		r.reqas++
	}
	return r.inner.Exchange(tx, txBits)
}

func TestDetectionHappyPath(t *testing.T) {
	h := newHarness()
	h.bus.SetResponder(cardsim.New(testUID, testPSK, testID))
	h.det.SetIRQ(true)

	out := h.runUntilPulse(t, 1000)
	if !out.CardReady || !out.StartAuth {
		t.Fatalf("outputs = %+v, want CardReady and StartAuth", out)
	}
	if out.Failed {
		t.Fatalf("unexpected failure: %v", out.FailCode)
	}

	session := h.det.Session()
	if session.UID != testUID {
		t.Fatalf("UID = %x, want %x", session.UID, testUID)
	}
	if session.ATQA != wire.ExpectedATQA {
		t.Fatalf("ATQA = %04x, want %04x", session.ATQA, wire.ExpectedATQA)
	}
	if session.SAK != 0x08 {
		t.Fatalf("SAK = %02x, want 08", session.SAK)
	}
	if session.Retries != 0 {
		t.Fatalf("Retries = %d, want 0", session.Retries)
	}

	// The pulse lasts exactly one tick; the machine then returns to idle.
	h.bus.Tick()
	if out := h.det.Tick(); out.CardReady || out.StartAuth {
		t.Fatal("CardReady pulse lasted more than one tick")
	}
	h.bus.Tick()
	h.det.Tick()
	if h.det.State() != detect.StateIdle {
		t.Fatalf("state = %v, want IDLE", h.det.State())
	}
}

func TestEmptyFieldTimesOut(t *testing.T) {
	h := newHarness()
	h.det.SetIRQ(true)

	out := h.runUntilPulse(t, 1000)
	if !out.Failed || out.FailCode != wire.FailDetectionTimeout {
		t.Fatalf("outputs = %+v, want DETECTION_TIMEOUT", out)
	}
}

func TestATQAMismatchRetriesExactlyThree(t *testing.T) {
	h := newHarness()
	card := cardsim.New(testUID, testPSK, testID)
	card.ATQA = 0x4400
	counter := &countingResponder{inner: card}
	h.bus.SetResponder(counter)
	h.det.SetIRQ(true)

	out := h.runUntilPulse(t, 1000)
	if !out.Failed || out.FailCode != wire.FailDetectionTimeout {
		t.Fatalf("outputs = %+v, want DETECTION_TIMEOUT", out)
	}
	// Initial attempt plus three retries.
	if counter.reqas != 4 {
		t.Fatalf("card saw %d REQA frames, want 4", counter.reqas)
	}
}

func TestCascadeCardRejected(t *testing.T) {
	h := newHarness()
	card := cardsim.New(testUID, testPSK, testID)
	card.SAK = 0x04
	h.bus.SetResponder(card)
	h.det.SetIRQ(true)

	out := h.runUntilPulse(t, 1000)
	if !out.Failed || out.FailCode != wire.FailCascadeUnsupported {
		t.Fatalf("outputs = %+v, want CASCADE_UNSUPPORTED", out)
	}
}

// bccCorruptor flips a UID bit in every anti-collision response.
type bccCorruptor struct {
	inner transport.Responder
}

func (r *bccCorruptor) Exchange(tx []byte, txBits uint8) ([]byte, bool) {
	rx, present := r.inner.Exchange(tx, txBits)
	if present && len(tx) == 2 && tx[0] == wire.PICCAnticoll {
		rx = append([]byte(nil), rx...)
		rx[0] ^= 0x01
	}
	return rx, present
}

func TestCorruptUIDConsumesRetries(t *testing.T) {
	h := newHarness()
	card := cardsim.New(testUID, testPSK, testID)
	h.bus.SetResponder(&bccCorruptor{inner: card})
	h.det.SetIRQ(true)

	out := h.runUntilPulse(t, 2000)
	if !out.Failed || out.FailCode != wire.FailDetectionTimeout {
		t.Fatalf("outputs = %+v, want DETECTION_TIMEOUT", out)
	}
}

func TestIRQLevelDoesNotRetrigger(t *testing.T) {
	h := newHarness()
	h.bus.SetResponder(cardsim.New(testUID, testPSK, testID))

	// Hold the line high through the whole sequence.
	h.det.SetIRQ(true)
	h.runUntilPulse(t, 1000)

	// With the level still high and no new edge, the machine must settle
	// in idle rather than restart.
	for i := 0; i < 50; i++ {
		h.det.SetIRQ(true)
		h.bus.Tick()
		h.det.Tick()
	}
	if h.det.State() != detect.StateIdle {
		t.Fatalf("state = %v, want IDLE (no retrigger on level)", h.det.State())
	}

	// A falling then rising edge starts a new sequence.
	h.det.SetIRQ(false)
	h.det.SetIRQ(true)
	out := h.runUntilPulse(t, 1000)
	if !out.CardReady {
		t.Fatalf("outputs = %+v, want CardReady on new edge", out)
	}
}

func TestResetClearsSession(t *testing.T) {
	h := newHarness()
	h.bus.SetResponder(cardsim.New(testUID, testPSK, testID))
	h.det.SetIRQ(true)
	h.runUntilPulse(t, 1000)

	h.det.Reset()
	if h.det.State() != detect.StateIdle {
		t.Fatalf("state after Reset = %v, want IDLE", h.det.State())
	}
	if h.det.Session() != (detect.Session{}) {
		t.Fatalf("session after Reset = %+v, want zero", h.det.Session())
	}
}
