package crypto

import (
	"encoding/binary"
	"encoding/hex"
)

// Block is a 128-bit AES block.
type Block [16]byte

// Concat packs two 64-bit halves into a block, hi first.
func Concat(hi, lo uint64) Block {
	var b Block
	binary.BigEndian.PutUint64(b[:8], hi)
	binary.BigEndian.PutUint64(b[8:], lo)
	return b
}

// Halves splits the block into its upper and lower 64 bits.
func (b Block) Halves() (hi, lo uint64) {
	return binary.BigEndian.Uint64(b[:8]), binary.BigEndian.Uint64(b[8:])
}

// BlockFromBytes copies a 16-byte slice into a Block. Shorter input is
// left-aligned and zero-padded.
func BlockFromBytes(p []byte) Block {
	var b Block
	copy(b[:], p)
	return b
}

// String returns the block as lowercase hex.
func (b Block) String() string {
	return hex.EncodeToString(b[:])
}

// ParseBlock decodes a 32-character hex string into a Block.
func ParseBlock(s string) (Block, error) {
	var b Block
	p, err := hex.DecodeString(s)
	if err != nil {
		return b, err
	}
	if len(p) != len(b) {
		return b, hex.ErrLength
	}
	copy(b[:], p)
	return b, nil
}
