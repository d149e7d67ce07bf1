package cardsim

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

// Card is a simulated proximity card.
type Card struct {
	// UID is the card's anti-collision identifier.
	UID [4]byte

	// PSK is the card's copy of the pre-shared key.
	PSK crypto.Block

	// ID is the identifier released after mutual authentication.
	ID crypto.Block

	// ATQA and SAK are the selection responses. Defaults match a
	// single-cascade Guardian card.
	ATQA uint16
	SAK  uint8

	// Present controls whether the card answers at all.
	Present bool

	cipher crypto.Cipher

	// fixedRC, when set, pins the card challenge for deterministic
	// tests; otherwise each AUTH_INIT draws a fresh one.
	fixedRC    uint64
	hasFixedRC bool

	lastRC     uint64
	challenged bool
	sessionKey crypto.Block
	authed     bool
}

// New creates a present card with the default ATQA/SAK and a random
// challenge source.
func New(uid [4]byte, psk, id crypto.Block) *Card {
	return &Card{
		UID:     uid,
		PSK:     psk,
		ID:      id,
		ATQA:    wire.ExpectedATQA,
		SAK:     0x08,
		Present: true,
		cipher:  crypto.AESCipher{},
	}
}

// SetChallenge pins the card challenge rc for deterministic tests.
func (c *Card) SetChallenge(rc uint64) {
	c.fixedRC = rc
	c.hasFixedRC = true
}

// Exchange answers one transmitted frame. It implements
// transport.Responder.
func (c *Card) Exchange(tx []byte, txBits uint8) ([]byte, bool) {
	if !c.Present || len(tx) == 0 {
		return nil, false
	}

	switch {
	case len(tx) == 1 && tx[0] == wire.PICCReqA && txBits == 7:
		return []byte{byte(c.ATQA >> 8), byte(c.ATQA)}, true

	case len(tx) == 2 && tx[0] == wire.PICCAnticoll && tx[1] == wire.AnticollNVB:
		rx := append([]byte{}, c.UID[:]...)
		return append(rx, wire.BCC(c.UID[:])), true

	case len(tx) == 9 && tx[0] == wire.PICCSelect && tx[1] == wire.SelectNVB:
		rx := []byte{c.SAK}
		lo, hi := wire.CRCA(rx)
		return append(rx, lo, hi), true

	case len(tx) == 2 && tx[0] == wire.LayrClass && tx[1] == wire.LayrAuthInit:
		return c.authInit(), true

	case len(tx) == 2+wire.BlockLen && tx[0] == wire.LayrClass && tx[1] == wire.LayrAuth:
		return c.auth(tx[2:]), true

	case len(tx) == 2 && tx[0] == wire.LayrClass && tx[1] == wire.LayrGetID:
		return c.getID(), true
	}

	return nil, false
}

// authInit issues a fresh challenge and returns AES_psk(rc ‖ 0⁶⁴).
func (c *Card) authInit() []byte {
	rc := c.nextRC()
	c.lastRC = rc
	c.challenged = true
	c.authed = false
	out := c.cipher.EncryptBlock(c.PSK, crypto.Concat(rc, 0))
	return out[:]
}

// auth verifies the terminal's token and, on success, derives the
// session key the same way the terminal does.
func (c *Card) auth(token []byte) []byte {
	if !c.challenged {
		return []byte{wire.StatusRejected}
	}
	pt := c.cipher.DecryptBlock(c.PSK, crypto.BlockFromBytes(token))
	rt, rc := pt.Halves()
	if rc != c.lastRC {
		return []byte{wire.StatusRejected}
	}
	c.sessionKey = c.cipher.EncryptBlock(c.PSK, crypto.Concat(rc, rt))
	c.authed = true
	return []byte{wire.StatusAccepted}
}

// getID releases the identifier under the session key; an
// unauthenticated request is rejected.
func (c *Card) getID() []byte {
	if !c.authed {
		return []byte{wire.StatusRejected}
	}
	out := c.cipher.EncryptBlock(c.sessionKey, c.ID)
	return out[:]
}

func (c *Card) nextRC() uint64 {
	if c.hasFixedRC {
		return c.fixedRC
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.BigEndian.Uint64(buf[:])
}
