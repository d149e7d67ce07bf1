// Package wire defines the byte-level vocabulary of the Guardian protocol.
//
// Two command sets share the reader channel:
//
//   - ISO14443A card selection: REQA, anti-collision and SELECT frames,
//     together with their response checks (ATQA value, UID BCC, SAK
//     cascade bit).
//   - LAYR application commands: AUTH_INIT, AUTH and GET_ID, the three
//     messages of the mutual-authentication exchange.
//
// The package also defines the reader register map and the Transaction
// type, the unit of work the state machines hand to the transport layer.
// Frames are built and validated here; pkg/detect and pkg/auth decide
// when to send them.
package wire
