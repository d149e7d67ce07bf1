package auth

import (
	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/keystore"
	"github.com/layr-protocol/guardian-go/pkg/nonce"
	"github.com/layr-protocol/guardian-go/pkg/transport"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// Outputs are the controller's per-tick output signals. Success and
// Failed are one-shot pulses; CardID is valid only alongside Success,
// FailCode only alongside Failed.
type Outputs struct {
	Success  bool
	Failed   bool
	FailCode wire.FailCode
	CardID   crypto.Block
}

// Controller runs the mutual-authentication protocol against the
// selected card. It owns the protocol context exclusively and drives
// the shared channel through its port once the arbiter hands it the
// token.
type Controller struct {
	state State
	ctx   Context

	txr    *transport.Transactor
	store  keystore.Store
	crypto *crypto.Service
	nonce  nonce.Source

	// startLatch is set by the detector's one-shot StartAuth pulse and
	// consumed on the next idle tick.
	startLatch bool

	// timeoutLatch is set by the watchdog; the next tick moves to
	// Failed unconditionally.
	timeoutLatch bool

	// submitted gates the single outstanding request of the current
	// state against re-submission.
	submitted bool

	keyIdx   int
	padding  uint64
	token    crypto.Block
	failCode wire.FailCode
}

// NewController creates a controller using the given resources.
func NewController(port *transport.Port, store keystore.Store, svc *crypto.Service, src nonce.Source) *Controller {
	return &Controller{
		txr:    transport.NewTransactor(port),
		store:  store,
		crypto: svc,
		nonce:  src,
	}
}

// State returns the current FSM state.
func (c *Controller) State() State {
	return c.state
}

// SetExchangeHook installs an observer for completed card exchanges.
func (c *Controller) SetExchangeHook(fn func(tx, rx []byte, timedOut bool)) {
	c.txr.Hook = fn
}

// Context returns a copy of the protocol context. Tests use it to
// inspect derived material; ownership stays with the controller.
func (c *Controller) Context() Context {
	return c.ctx
}

// Start latches the detector's StartAuth pulse.
func (c *Controller) Start() {
	c.startLatch = true
}

// ForceTimeout latches the watchdog's expiry signal. The controller
// treats it as absolute: the next tick transitions to Failed from any
// active state and abandons in-flight resource requests.
func (c *Controller) ForceTimeout() {
	if c.state.Active() && !c.state.Terminal() {
		c.timeoutLatch = true
	}
}

// Reset returns the machine to idle, zeroing the protocol context.
func (c *Controller) Reset() {
	c.enterIdle()
}

// Tick advances the machine by one step.
func (c *Controller) Tick() Outputs {
	if c.timeoutLatch {
		c.timeoutLatch = false
		c.abandonAll()
		return c.fail(wire.FailProtocolTimeout)
	}

	switch c.state {
	case StateIdle:
		if c.startLatch {
			c.startLatch = false
			c.ctx.Zeroize()
			c.keyIdx = 0
			c.submitted = false
			c.state = StateLoadKey
		}

	case StateLoadKey:
		c.tickLoadKey()

	case StateAuthInitSend:
		c.txr.Start(wire.AuthInit())
		c.state = StateAuthInitRecv

	case StateAuthInitRecv:
		if c.recvOK() {
			c.state = StateDecryptChallenge
		}

	case StateDecryptChallenge:
		if out, ok := c.tickCrypto(crypto.ModeDecrypt, c.ctx.PSK, c.rxBlock()); ok {
			c.ctx.RC, c.padding = out.Halves()
			c.state = StateCheckPadding
		}

	case StateCheckPadding:
		// The zero padding is the only cryptographic evidence of a
		// shared key. Non-zero is a definitive rejection; no retry.
		if c.padding != 0 {
			return c.fail(wire.FailKeyMismatch)
		}
		c.state = StateGenNonce

	case StateGenNonce:
		if !c.submitted {
			if err := c.nonce.Request(); err == nil {
				c.submitted = true
			}
			break
		}
		if rt, ok := c.nonce.Take(); ok {
			c.ctx.RT = rt
			c.submitted = false
			c.state = StateEncryptResponse
		}

	case StateEncryptResponse:
		if out, ok := c.tickCrypto(crypto.ModeEncrypt, c.ctx.PSK, crypto.Concat(c.ctx.RT, c.ctx.RC)); ok {
			c.token = out
			c.state = StateAuthSend
		}

	case StateAuthSend:
		c.txr.Start(wire.Auth([16]byte(c.token)))
		c.state = StateAuthRecv

	case StateAuthRecv:
		if c.recvOK() {
			c.state = StateCheckStatus
		}

	case StateCheckStatus:
		rx, _ := c.txr.Result()
		if len(rx) < wire.StatusLen || rx[0] != wire.StatusAccepted {
			return c.fail(wire.FailCardRejected)
		}
		c.state = StateDeriveSessionKey

	case StateDeriveSessionKey:
		// Operand order is the reverse of the outbound token; both
		// sides know rc and rt by now and derive the same key.
		if out, ok := c.tickCrypto(crypto.ModeEncrypt, c.ctx.PSK, crypto.Concat(c.ctx.RC, c.ctx.RT)); ok {
			c.ctx.SessionKey = out
			c.state = StateGetIDSend
		}

	case StateGetIDSend:
		c.txr.Start(wire.GetID())
		c.state = StateGetIDRecv

	case StateGetIDRecv:
		if c.recvOK() {
			c.state = StateDecryptID
		}

	case StateDecryptID:
		if out, ok := c.tickCrypto(crypto.ModeDecrypt, c.ctx.SessionKey, c.rxBlock()); ok {
			c.ctx.CardID = out
			c.state = StateSuccess
			return Outputs{Success: true, CardID: c.ctx.CardID}
		}

	case StateSuccess, StateFailed:
		c.enterIdle()
	}

	return Outputs{}
}

// tickLoadKey advances the byte-by-byte PSK read: one store completion
// per byte, assembled big-endian into the context key.
func (c *Controller) tickLoadKey() {
	if !c.submitted {
		if err := c.store.Submit(keystore.PSKBase + uint8(c.keyIdx)); err == nil {
			c.submitted = true
		}
		return
	}
	b, ok := c.store.Take()
	if !ok {
		return
	}
	c.ctx.PSK[c.keyIdx] = b
	c.keyIdx++
	c.submitted = false
	if c.keyIdx >= keystore.PSKLen {
		c.state = StateAuthInitSend
	}
}

// tickCrypto submits the block operation once, then polls for its
// completion. The result is valid when ok is true.
func (c *Controller) tickCrypto(mode crypto.Mode, key, in crypto.Block) (crypto.Block, bool) {
	if !c.submitted {
		if err := c.crypto.Submit(crypto.Op{Mode: mode, Key: key, In: in}); err == nil {
			c.submitted = true
		}
		return crypto.Block{}, false
	}
	out, ok := c.crypto.Take()
	if ok {
		c.submitted = false
	}
	return out, ok
}

// recvOK steps the in-flight transaction. A card that stops answering
// mid-session parks the machine here until the watchdog fires; there is
// no retry path inside a session.
func (c *Controller) recvOK() bool {
	if !c.txr.Step() {
		return false
	}
	if _, timedOut := c.txr.Result(); timedOut {
		return false
	}
	return true
}

// rxBlock returns the last response as a 16-byte block.
func (c *Controller) rxBlock() crypto.Block {
	rx, _ := c.txr.Result()
	return crypto.BlockFromBytes(rx)
}

func (c *Controller) fail(code wire.FailCode) Outputs {
	c.failCode = code
	c.state = StateFailed
	return Outputs{Failed: true, FailCode: code}
}

func (c *Controller) enterIdle() {
	c.state = StateIdle
	c.ctx.Zeroize()
	c.token = crypto.Block{}
	c.padding = 0
	c.keyIdx = 0
	c.submitted = false
	c.failCode = wire.FailNone
	c.txr.Reset()
}

// abandonAll drops every in-flight resource request on cancellation.
func (c *Controller) abandonAll() {
	c.txr.Reset()
	c.crypto.Abandon()
	c.store.Abandon()
	c.nonce.Abandon()
}
