// Package cardsim simulates a Guardian proximity card.
//
// Card implements transport.Responder: plugged into a RegisterBus it
// answers the ISO14443A selection sequence and the LAYR application
// commands with its own key material, exactly like a card in the RF
// field. It keeps its own view of the session (last issued challenge,
// derived session key), so wrong-key, rejection and end-to-end
// scenarios run hermetically in the simulator and the tests.
package cardsim
