package engine

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/layr-protocol/guardian-go/pkg/auth"
	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/detect"
	"github.com/layr-protocol/guardian-go/pkg/keystore"
	"github.com/layr-protocol/guardian-go/pkg/log"
	"github.com/layr-protocol/guardian-go/pkg/nonce"
	"github.com/layr-protocol/guardian-go/pkg/transport"
	"github.com/layr-protocol/guardian-go/pkg/watchdog"
)

// Engine errors.
var (
	// ErrNoOutcome is returned by RunUntilOutcome when the tick budget
	// is exhausted without a terminal outcome.
	ErrNoOutcome = errors.New("engine: no outcome within tick budget")
)

// Signals are the outputs exposed to the door-control glue.
// AuthSuccess and AuthFailed pulse for one tick; AuthBusy is a level.
// CardID is valid only alongside AuthSuccess.
type Signals struct {
	AuthSuccess bool
	AuthFailed  bool
	AuthBusy    bool
	CardID      crypto.Block
}

// Engine wires the protocol machines to their resources and steps them
// from a single synchronous loop.
type Engine struct {
	cfg Config

	bus      transport.Channel
	arbiter  *transport.Arbiter
	detector *detect.Detector
	authCtrl *auth.Controller
	wd       *watchdog.Watchdog

	cryptoSvc *crypto.Service
	store     keystore.Store
	nonceSrc  nonce.Source

	plog log.Logger

	ticks        uint64
	sessionID    string
	sessionStart uint64
	sessionUID   string
	outcome      Outcome

	prevDetect detect.State
	prevAuth   auth.State
}

// New creates an engine stepping the given resources. A nil logger
// disables protocol capture.
func New(cfg Config, bus transport.Channel, store keystore.Store, src nonce.Source, plog log.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if plog == nil {
		plog = log.NoopLogger{}
	}

	wd, err := watchdog.NewWithBudget(cfg.WatchdogBudget)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		bus:       bus,
		arbiter:   transport.NewArbiter(bus),
		wd:        wd,
		cryptoSvc: crypto.NewService(crypto.AESCipher{}, cfg.CryptoLatency),
		store:     store,
		nonceSrc:  src,
		plog:      plog,
	}
	e.detector = detect.NewDetector(e.arbiter.Port(transport.OwnerDetector))
	e.authCtrl = auth.NewController(e.arbiter.Port(transport.OwnerAuth), store, e.cryptoSvc, src)
	e.detector.SetExchangeHook(e.logExchange)
	e.authCtrl.SetExchangeHook(e.logExchange)
	return e, nil
}

// SetIRQ samples the external card-present interrupt line.
func (e *Engine) SetIRQ(level bool) {
	e.detector.SetIRQ(level)
}

// Outcome returns the outcome of the current or last session.
func (e *Engine) Outcome() Outcome {
	return e.outcome
}

// SessionID returns the UUID of the current or last session.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Ticks returns the number of elapsed engine ticks.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// Detector exposes the detection machine for inspection.
func (e *Engine) Detector() *detect.Detector {
	return e.detector
}

// Auth exposes the Authentication Controller for inspection.
func (e *Engine) Auth() *auth.Controller {
	return e.authCtrl
}

// Watchdog exposes the session watchdog for inspection.
func (e *Engine) Watchdog() *watchdog.Watchdog {
	return e.wd
}

// Owner returns the current holder of the channel token.
func (e *Engine) Owner() transport.Owner {
	return e.arbiter.Owner()
}

// Tick advances the whole system by one step: resources first, then
// arbitration, then both machines exactly once.
func (e *Engine) Tick() Signals {
	e.ticks++

	e.bus.Tick()
	e.cryptoSvc.Tick()
	e.store.Tick()
	e.nonceSrc.Tick()

	if e.wd.Tick() {
		// Timeout is absolute: cancel the controller and drop whatever
		// the channel still has in flight.
		e.authCtrl.ForceTimeout()
		e.bus.Abandon()
	}

	e.arbiter.SetOwner(transport.Decide(e.detector.State().Ready(), e.authCtrl.State().Active()))

	dOut := e.detector.Tick()
	if dOut.StartAuth {
		e.authCtrl.Start()
	}
	aOut := e.authCtrl.Tick()

	e.observeTransitions()

	if dOut.Failed {
		e.finishSession(Outcome{Kind: OutcomeFailed, FailCode: dOut.FailCode})
	}

	var sig Signals
	sig.AuthBusy = e.authCtrl.State().Active()
	switch {
	case aOut.Success:
		sig.AuthSuccess = true
		sig.CardID = aOut.CardID
		e.finishSession(Outcome{Kind: OutcomeSuccess, CardID: aOut.CardID})
	case aOut.Failed:
		sig.AuthFailed = true
		e.finishSession(Outcome{Kind: OutcomeFailed, FailCode: aOut.FailCode})
	}

	return sig
}

// RunUntilOutcome ticks until the current session reaches a terminal
// outcome, up to maxTicks.
func (e *Engine) RunUntilOutcome(maxTicks int) (Outcome, error) {
	for i := 0; i < maxTicks; i++ {
		e.Tick()
		if !e.outcome.Pending() {
			return e.outcome, nil
		}
	}
	return e.outcome, ErrNoOutcome
}

// observeTransitions maintains session bookkeeping and records state
// changes to the protocol logger.
func (e *Engine) observeTransitions() {
	ds := e.detector.State()
	if ds != e.prevDetect {
		if e.prevDetect == detect.StateIdle {
			e.beginSession()
		}
		if ds == detect.StateSendSelect {
			uid := e.detector.Session().UID
			e.sessionUID = hex.EncodeToString(uid[:])
		}
		e.logState(log.MachineDetector, e.prevDetect.String(), ds.String())
		e.prevDetect = ds
	}

	as := e.authCtrl.State()
	if as != e.prevAuth {
		if e.prevAuth == auth.StateIdle {
			e.wd.Arm()
		}
		if as.Terminal() {
			e.wd.Disarm()
		}
		e.logState(log.MachineAuth, e.prevAuth.String(), as.String())
		e.prevAuth = as
	}
}

// beginSession starts bookkeeping for a fresh card session.
func (e *Engine) beginSession() {
	e.sessionID = uuid.NewString()
	e.sessionStart = e.ticks
	e.sessionUID = ""
	e.outcome = Outcome{}
}

// finishSession publishes the outcome and records it.
func (e *Engine) finishSession(o Outcome) {
	e.outcome = o
	ev := log.Event{
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Layer:     log.LayerSession,
		Category:  log.CategoryOutcome,
		UID:       e.sessionUID,
		Outcome: &log.OutcomeEvent{
			Success: o.Kind == OutcomeSuccess,
			Ticks:   e.ticks - e.sessionStart,
		},
	}
	if o.Kind == OutcomeFailed {
		ev.Outcome.FailCode = o.FailCode.String()
	}
	e.plog.Log(ev)
}

func (e *Engine) logState(m log.Machine, oldState, newState string) {
	e.plog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Layer:     log.LayerSession,
		Category:  log.CategoryState,
		UID:       e.sessionUID,
		StateChange: &log.StateChangeEvent{
			Machine:  m,
			OldState: oldState,
			NewState: newState,
		},
	})
}

func (e *Engine) logExchange(tx, rx []byte, timedOut bool) {
	e.plog.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Layer:     log.LayerWire,
		Category:  log.CategoryExchange,
		UID:       e.sessionUID,
		Exchange: &log.ExchangeEvent{
			TX:       append([]byte(nil), tx...),
			RX:       append([]byte(nil), rx...),
			TimedOut: timedOut,
		},
	})
}
