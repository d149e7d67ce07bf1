package cardsim_test

import (
	"bytes"
	"testing"

	"github.com/layr-protocol/guardian-go/pkg/cardsim"
	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/wire"
)

var (
	testUID = [4]byte{0xDE, 0xAD, 0xBE, 0xEF}
	testPSK = mustBlock("2b7e151628aed2a6abf7158809cf4f3c")
	testID  = mustBlock("00112233445566778899aabbccddeeff")
)

func mustBlock(s string) crypto.Block {
	b, err := crypto.ParseBlock(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestSelectionResponses(t *testing.T) {
	card := cardsim.New(testUID, testPSK, testID)

	rx, present := card.Exchange([]byte{0x26}, 7)
	if !present || !bytes.Equal(rx, []byte{0x04, 0x00}) {
		t.Fatalf("REQA -> %x present=%v, want 0400", rx, present)
	}

	// REQA only counts as a short frame.
	if _, present := card.Exchange([]byte{0x26}, 0); present {
		t.Fatal("card answered a full-framed 26 byte")
	}

	rx, present = card.Exchange([]byte{0x93, 0x20}, 0)
	if !present {
		t.Fatal("card did not answer anti-collision")
	}
	want := append(append([]byte{}, testUID[:]...), wire.BCC(testUID[:]))
	if !bytes.Equal(rx, want) {
		t.Fatalf("anticoll -> %x, want %x", rx, want)
	}

	rx, present = card.Exchange(wire.Select(testUID).TX, 0)
	if !present || len(rx) != 3 || rx[0] != 0x08 {
		t.Fatalf("SELECT -> %x present=%v, want SAK 08", rx, present)
	}

	card.Present = false
	if _, present := card.Exchange([]byte{0x26}, 7); present {
		t.Fatal("absent card answered")
	}
}

func TestAuthenticationFlow(t *testing.T) {
	const rc = uint64(0x0123456789abcdef)
	const rt = uint64(0xfedcba9876543210)

	card := cardsim.New(testUID, testPSK, testID)
	card.SetChallenge(rc)
	var cipher crypto.AESCipher

	// AUTH_INIT returns the encrypted challenge with a zero lower half.
	rx, present := card.Exchange(wire.AuthInit().TX, 0)
	if !present || len(rx) != wire.BlockLen {
		t.Fatalf("AUTH_INIT -> %d bytes present=%v, want 16", len(rx), present)
	}
	hi, lo := cipher.DecryptBlock(testPSK, crypto.BlockFromBytes(rx)).Halves()
	if hi != rc || lo != 0 {
		t.Fatalf("challenge plaintext = %016x %016x, want %016x 0", hi, lo, rc)
	}

	// A valid token is accepted and unlocks GET_ID.
	token := cipher.EncryptBlock(testPSK, crypto.Concat(rt, rc))
	rx, present = card.Exchange(wire.Auth([16]byte(token)).TX, 0)
	if !present || !bytes.Equal(rx, []byte{wire.StatusAccepted}) {
		t.Fatalf("AUTH -> %x present=%v, want 00", rx, present)
	}

	rx, present = card.Exchange(wire.GetID().TX, 0)
	if !present || len(rx) != wire.BlockLen {
		t.Fatalf("GET_ID -> %d bytes present=%v, want 16", len(rx), present)
	}
	sessionKey := cipher.EncryptBlock(testPSK, crypto.Concat(rc, rt))
	if got := cipher.DecryptBlock(sessionKey, crypto.BlockFromBytes(rx)); got != testID {
		t.Fatalf("decrypted ID = %s, want %s", got, testID)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	card := cardsim.New(testUID, testPSK, testID)
	card.SetChallenge(0x1111)

	if _, present := card.Exchange(wire.AuthInit().TX, 0); !present {
		t.Fatal("AUTH_INIT not answered")
	}

	// A token built against the wrong challenge is rejected.
	var cipher crypto.AESCipher
	token := cipher.EncryptBlock(testPSK, crypto.Concat(0x2222, 0x9999))
	rx, _ := card.Exchange(wire.Auth([16]byte(token)).TX, 0)
	if !bytes.Equal(rx, []byte{wire.StatusRejected}) {
		t.Fatalf("AUTH with bad token -> %x, want ff", rx)
	}

	// GET_ID stays locked after the rejection.
	rx, _ = card.Exchange(wire.GetID().TX, 0)
	if !bytes.Equal(rx, []byte{wire.StatusRejected}) {
		t.Fatalf("GET_ID after rejection -> %x, want ff", rx)
	}
}

func TestGetIDBeforeAuth(t *testing.T) {
	card := cardsim.New(testUID, testPSK, testID)
	rx, present := card.Exchange(wire.GetID().TX, 0)
	if !present || !bytes.Equal(rx, []byte{wire.StatusRejected}) {
		t.Fatalf("GET_ID before auth -> %x present=%v, want ff", rx, present)
	}
}

func TestAuthWithoutChallenge(t *testing.T) {
	card := cardsim.New(testUID, testPSK, testID)
	var token [16]byte
	rx, present := card.Exchange(wire.Auth(token).TX, 0)
	if !present || !bytes.Equal(rx, []byte{wire.StatusRejected}) {
		t.Fatalf("AUTH without challenge -> %x present=%v, want ff", rx, present)
	}
}
