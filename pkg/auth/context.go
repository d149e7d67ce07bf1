package auth

import "github.com/layr-protocol/guardian-go/pkg/crypto"

// Context is the protocol context of one authentication session. The
// controller owns it exclusively; it is zeroed on every return to idle
// so no key material or half-loaded state survives across sessions.
type Context struct {
	// PSK is re-read from the key store at the start of every session.
	PSK crypto.Block

	// RC is the card challenge recovered from the AUTH_INIT response.
	RC uint64

	// RT is the freshly generated terminal challenge.
	RT uint64

	// SessionKey is AES_psk(rc ‖ rt), derived exactly once per session
	// and never persisted.
	SessionKey crypto.Block

	// CardID is the decrypted identifier, valid only on success.
	CardID crypto.Block
}

// Zeroize clears all session material.
func (c *Context) Zeroize() {
	*c = Context{}
}
