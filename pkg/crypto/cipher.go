package crypto

import (
	"crypto/aes"
	"fmt"
)

// Mode selects the direction of a block operation.
type Mode uint8

const (
	// ModeEncrypt encrypts the input block.
	ModeEncrypt Mode = 0

	// ModeDecrypt decrypts the input block.
	ModeDecrypt Mode = 1
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeEncrypt:
		return "ENCRYPT"
	case ModeDecrypt:
		return "DECRYPT"
	default:
		return "UNKNOWN"
	}
}

// Cipher is a single-block AES-128 primitive.
type Cipher interface {
	// EncryptBlock returns AES_key(in).
	EncryptBlock(key, in Block) Block

	// DecryptBlock returns AES⁻¹_key(in).
	DecryptBlock(key, in Block) Block
}

// AESCipher implements Cipher with the standard library AES
// implementation. A 16-byte key never fails aes.NewCipher, so block
// operations panic on the impossible error rather than returning it.
type AESCipher struct{}

// EncryptBlock returns the AES-128 encryption of in under key.
func (AESCipher) EncryptBlock(key, in Block) Block {
	c, err := aes.NewCipher(key[:])
	if err != nil {
		panic(fmt.Sprintf("aes: %v", err))
	}
	var out Block
	c.Encrypt(out[:], in[:])
	return out
}

// DecryptBlock returns the AES-128 decryption of in under key.
func (AESCipher) DecryptBlock(key, in Block) Block {
	c, err := aes.NewCipher(key[:])
	if err != nil {
		panic(fmt.Sprintf("aes: %v", err))
	}
	var out Block
	c.Decrypt(out[:], in[:])
	return out
}

// Compile-time interface satisfaction check.
var _ Cipher = AESCipher{}
