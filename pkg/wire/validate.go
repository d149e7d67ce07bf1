package wire

import "errors"

// Response validation errors.
var (
	ErrShortResponse = errors.New("response shorter than expected")
	ErrATQAMismatch  = errors.New("unexpected ATQA value")
	ErrBCCMismatch   = errors.New("UID block check character mismatch")
	ErrCascade       = errors.New("card requires unsupported cascade level")
)

// ParseATQA extracts the 16-bit ATQA from a REQA response and checks it
// against ExpectedATQA. The first response byte carries the high byte.
func ParseATQA(rx []byte) (uint16, error) {
	if len(rx) < ATQALen {
		return 0, ErrShortResponse
	}
	atqa := uint16(rx[0])<<8 | uint16(rx[1])
	if atqa != ExpectedATQA {
		return atqa, ErrATQAMismatch
	}
	return atqa, nil
}

// ParseUID extracts the 4-byte UID from an anti-collision response and
// verifies the trailing BCC.
func ParseUID(rx []byte) ([4]byte, error) {
	var uid [4]byte
	if len(rx) < AnticollLen {
		return uid, ErrShortResponse
	}
	copy(uid[:], rx[:4])
	if BCC(uid[:]) != rx[4] {
		return uid, ErrBCCMismatch
	}
	return uid, nil
}

// ParseSAK extracts the SAK byte from a SELECT response and rejects
// cards that signal a further cascade level.
func ParseSAK(rx []byte) (uint8, error) {
	if len(rx) < 1 {
		return 0, ErrShortResponse
	}
	sak := rx[0]
	if sak&SAKCascadeBit != 0 {
		return sak, ErrCascade
	}
	return sak, nil
}

// UIDWord packs a 4-byte UID into a 32-bit word, first byte in the most
// significant position.
func UIDWord(uid [4]byte) uint32 {
	return uint32(uid[0])<<24 | uint32(uid[1])<<16 | uint32(uid[2])<<8 | uint32(uid[3])
}
