package wire

// Reader register map (MFRC522-compatible). Addresses are 6 bits wide.
const (
	RegCommand    uint8 = 0x01
	RegComIEn     uint8 = 0x02
	RegComIrq     uint8 = 0x04
	RegError      uint8 = 0x06
	RegStatus1    uint8 = 0x07
	RegFIFOData   uint8 = 0x09
	RegFIFOLevel  uint8 = 0x0A
	RegControl    uint8 = 0x0C
	RegBitFraming uint8 = 0x0D
	RegColl       uint8 = 0x0E
	RegMode       uint8 = 0x11
	RegTxControl  uint8 = 0x14
	RegTxAuto     uint8 = 0x15
	RegVersion    uint8 = 0x37
)

// Reader commands, written to RegCommand.
const (
	PCDIdle       uint8 = 0x00
	PCDCalcCRC    uint8 = 0x03
	PCDTransmit   uint8 = 0x04
	PCDReceive    uint8 = 0x08
	PCDTransceive uint8 = 0x0C
	PCDReset      uint8 = 0x0F
)

// ComIrq bits reported by the reader after a transceive.
const (
	IrqTimer uint8 = 0x01 // no card answered within the RF timeout
	IrqRx    uint8 = 0x20 // response received, FIFO holds the bytes
)

// ISO14443A card commands.
const (
	PICCReqA     uint8 = 0x26
	PICCWupA     uint8 = 0x52
	PICCAnticoll uint8 = 0x93
	PICCSelect   uint8 = 0x93
	PICCHalt     uint8 = 0x50

	// AnticollNVB is the NVB byte for a full anti-collision round
	// (cascade level 1, no known UID bits).
	AnticollNVB uint8 = 0x20

	// SelectNVB is the NVB byte for a full SELECT (all 40 UID bits known).
	SelectNVB uint8 = 0x70
)

// LAYR application commands. Each is a two-byte header; AUTH carries a
// 16-byte token after the header.
const (
	LayrClass    uint8 = 0x80
	LayrAuthInit uint8 = 0x10
	LayrAuth     uint8 = 0x11
	LayrGetID    uint8 = 0x12
)

// Card status bytes returned in response to AUTH.
const (
	StatusAccepted uint8 = 0x00
	StatusRejected uint8 = 0xFF
)

// ExpectedATQA is the answer-to-request the detector accepts. Any other
// value counts as a failed detection round.
const ExpectedATQA uint16 = 0x0400

// SAKCascadeBit is set in the SAK byte when the card requires another
// cascade level to complete selection. Only single-cascade cards are
// supported.
const SAKCascadeBit uint8 = 0x04

// Fixed response lengths, in bytes.
const (
	ATQALen     = 2 // ATQA
	AnticollLen = 5 // UID[4] + BCC
	SAKLen      = 3 // SAK + CRC_A
	BlockLen    = 16
	StatusLen   = 1
)
