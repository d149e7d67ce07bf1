package wire

// Transaction is one card exchange: the frame to transmit and the number
// of response bytes expected back. TxBits is the bit-framing value for
// the last transmitted byte; REQA is a short frame (7 bits), everything
// else is byte-aligned (0 = all 8 bits).
type Transaction struct {
	TX     []byte
	RXLen  int
	TxBits uint8
}

// ReqA builds the 7-bit REQA short frame. The card answers with ATQA.
func ReqA() Transaction {
	return Transaction{TX: []byte{PICCReqA}, RXLen: ATQALen, TxBits: 7}
}

// Anticoll builds the cascade-level-1 anti-collision frame. The card
// answers with its 4-byte UID followed by the BCC.
func Anticoll() Transaction {
	return Transaction{TX: []byte{PICCAnticoll, AnticollNVB}, RXLen: AnticollLen}
}

// Select builds the 9-byte SELECT frame for a 4-byte UID:
// 0x93 0x70 uid[4] bcc crc[2]. The card answers with SAK + CRC_A.
func Select(uid [4]byte) Transaction {
	tx := make([]byte, 0, 9)
	tx = append(tx, PICCSelect, SelectNVB)
	tx = append(tx, uid[:]...)
	tx = append(tx, BCC(uid[:]))
	lo, hi := CRCA(tx)
	tx = append(tx, lo, hi)
	return Transaction{TX: tx, RXLen: SAKLen}
}

// AuthInit builds the AUTH_INIT command. The card answers with its
// PSK-encrypted challenge block.
func AuthInit() Transaction {
	return Transaction{TX: []byte{LayrClass, LayrAuthInit}, RXLen: BlockLen}
}

// Auth builds the AUTH command carrying the terminal's 16-byte
// authentication token. The card answers with a single status byte.
func Auth(token [16]byte) Transaction {
	tx := make([]byte, 0, 2+BlockLen)
	tx = append(tx, LayrClass, LayrAuth)
	tx = append(tx, token[:]...)
	return Transaction{TX: tx, RXLen: StatusLen}
}

// GetID builds the GET_ID command. The card answers with its identifier
// encrypted under the session key.
func GetID() Transaction {
	return Transaction{TX: []byte{LayrClass, LayrGetID}, RXLen: BlockLen}
}

// BCC returns the ISO14443A block check character: the XOR of all bytes.
func BCC(data []byte) byte {
	var bcc byte
	for _, b := range data {
		bcc ^= b
	}
	return bcc
}

// CRCA computes the ISO14443-3 CRC_A over data and returns it in
// transmission order (low byte first). Polynomial 0x8408 (bit-reflected
// 0x1021), initial value 0x6363.
func CRCA(data []byte) (lo, hi byte) {
	crc := uint16(0x6363)
	for _, b := range data {
		b ^= byte(crc)
		b ^= b << 4
		crc = (crc >> 8) ^ (uint16(b) << 8) ^ (uint16(b) << 3) ^ (uint16(b) >> 4)
	}
	return byte(crc), byte(crc >> 8)
}
