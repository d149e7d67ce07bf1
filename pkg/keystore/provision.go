package keystore

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Provisioning errors.
var (
	// ErrShortMaster is returned when the master secret is shorter than
	// one AES key.
	ErrShortMaster = errors.New("keystore: master secret too short")
)

// hkdfInfo domain-separates Guardian PSK derivation from any other use
// of the same master secret.
const hkdfInfo = "guardian-psk-v1"

// DerivePSK derives a per-terminal PSK from a master secret and the
// terminal serial using HKDF-SHA256. The same (master, serial) pair
// always yields the same key, so a terminal can be re-provisioned
// without touching the card fleet.
func DerivePSK(master []byte, serial []byte) ([PSKLen]byte, error) {
	var psk [PSKLen]byte
	if len(master) < PSKLen {
		return psk, ErrShortMaster
	}
	r := hkdf.New(sha256.New, master, serial, []byte(hkdfInfo))
	if _, err := io.ReadFull(r, psk[:]); err != nil {
		return psk, err
	}
	return psk, nil
}

// Provision derives the terminal PSK and installs it at PSKBase.
func Provision(e *EEPROM, master, serial []byte) error {
	psk, err := DerivePSK(master, serial)
	if err != nil {
		return err
	}
	return e.WriteKey(PSKBase, psk)
}
