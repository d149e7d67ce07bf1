// Package transport provides the shared reader channel and its
// arbitration.
//
// The channel carries single-register commands ({read|write, addr,
// data}) with at most one outstanding submission. Two state machines,
// the Card Detector and the Authentication Controller, compete for it;
// the Arbiter holds the single ownership token deciding whose
// submissions reach the channel. Suppressed submissions are never
// queued; the losing machine re-issues on a later tick.
//
// Transactor turns a wire.Transaction into the channel command walk a
// real reader needs: FIFO load, bit framing, transceive start, IRQ poll
// and FIFO drain, one command in flight at a time.
//
// RegisterBus is the in-memory reader model used by the simulator and
// the tests; production builds replace it with the SPI-backed channel.
package transport
