package keystore_test

import (
	"bytes"
	"testing"

	"github.com/layr-protocol/guardian-go/pkg/keystore"
)

func TestEEPROMRead(t *testing.T) {
	e := keystore.NewEEPROM(1)
	if err := e.Write(0x10, 0xA5); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := e.Submit(0x10); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := e.Submit(0x10); err != keystore.ErrBusy {
		t.Fatalf("second Submit = %v, want ErrBusy", err)
	}

	e.Tick()
	if _, ok := e.Take(); ok {
		t.Fatal("result ready before latency elapsed")
	}
	e.Tick()
	data, ok := e.Take()
	if !ok {
		t.Fatal("result not ready after latency elapsed")
	}
	if data != 0xA5 {
		t.Fatalf("read = %02x, want a5", data)
	}
	if _, ok := e.Take(); ok {
		t.Fatal("Take did not consume the result")
	}
}

func TestEEPROMErasedState(t *testing.T) {
	e := keystore.NewEEPROM(0)
	if err := e.Submit(0x7F); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	e.Tick()
	data, ok := e.Take()
	if !ok || data != 0xFF {
		t.Fatalf("erased byte = %02x ok=%v, want ff", data, ok)
	}
}

func TestEEPROMBadAddress(t *testing.T) {
	e := keystore.NewEEPROM(0)
	if err := e.Submit(0x80); err != keystore.ErrBadAddress {
		t.Fatalf("Submit(0x80) = %v, want ErrBadAddress", err)
	}
	if err := e.Write(0x80, 0); err != keystore.ErrBadAddress {
		t.Fatalf("Write(0x80) = %v, want ErrBadAddress", err)
	}
	var key [keystore.PSKLen]byte
	if err := e.WriteKey(0x78, key); err != keystore.ErrBadAddress {
		t.Fatalf("WriteKey(0x78) = %v, want ErrBadAddress", err)
	}
}

func TestEEPROMAbandon(t *testing.T) {
	e := keystore.NewEEPROM(0)
	if err := e.Submit(0x00); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	e.Abandon()
	e.Tick()
	if _, ok := e.Take(); ok {
		t.Fatal("abandoned read still produced a result")
	}
	if err := e.Submit(0x00); err != nil {
		t.Fatalf("Submit after Abandon failed: %v", err)
	}
}

func TestWriteKey(t *testing.T) {
	e := keystore.NewEEPROM(0)
	var key [keystore.PSKLen]byte
	for i := range key {
		key[i] = byte(i + 1)
	}
	if err := e.WriteKey(keystore.PSKBase, key); err != nil {
		t.Fatalf("WriteKey failed: %v", err)
	}

	got := readKey(t, e, keystore.PSKBase)
	if got != key {
		t.Fatalf("stored key = %x, want %x", got, key)
	}
}

func TestDerivePSK(t *testing.T) {
	master := bytes.Repeat([]byte{0x42}, 32)

	a, err := keystore.DerivePSK(master, []byte("terminal-001"))
	if err != nil {
		t.Fatalf("DerivePSK failed: %v", err)
	}
	b, err := keystore.DerivePSK(master, []byte("terminal-001"))
	if err != nil {
		t.Fatalf("DerivePSK failed: %v", err)
	}
	if a != b {
		t.Fatal("derivation is not deterministic")
	}

	c, err := keystore.DerivePSK(master, []byte("terminal-002"))
	if err != nil {
		t.Fatalf("DerivePSK failed: %v", err)
	}
	if a == c {
		t.Fatal("different serials yielded the same PSK")
	}

	if _, err := keystore.DerivePSK([]byte("short"), nil); err != keystore.ErrShortMaster {
		t.Fatalf("short master = %v, want ErrShortMaster", err)
	}
}

func TestProvision(t *testing.T) {
	master := bytes.Repeat([]byte{0x13}, 32)
	serial := []byte("terminal-007")

	e := keystore.NewEEPROM(0)
	if err := keystore.Provision(e, master, serial); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	want, err := keystore.DerivePSK(master, serial)
	if err != nil {
		t.Fatalf("DerivePSK failed: %v", err)
	}
	if got := readKey(t, e, keystore.PSKBase); got != want {
		t.Fatalf("provisioned key = %x, want %x", got, want)
	}
}

// readKey reads a 16-byte key back through the tick interface.
func readKey(t *testing.T, e *keystore.EEPROM, base uint8) [keystore.PSKLen]byte {
	t.Helper()
	var key [keystore.PSKLen]byte
	for i := range key {
		if err := e.Submit(base + uint8(i)); err != nil {
			t.Fatalf("Submit(%d) failed: %v", i, err)
		}
		e.Tick()
		data, ok := e.Take()
		if !ok {
			t.Fatalf("read %d did not complete", i)
		}
		key[i] = data
	}
	return key
}
