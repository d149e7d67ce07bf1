package transport

import "errors"

// Channel errors.
var (
	// ErrBusy is returned by Submit while a command is outstanding.
	ErrBusy = errors.New("transport: command already in flight")

	// ErrNotGranted is returned when a machine submits without holding
	// the ownership token. The submission is dropped, never queued.
	ErrNotGranted = errors.New("transport: channel not granted")
)

// Command is one register access on the reader channel.
type Command struct {
	// Write selects register write (true) or read (false).
	Write bool

	// Addr is the 6-bit register address.
	Addr uint8

	// Data is the byte to write; ignored for reads.
	Data uint8
}

// Completion reports the outcome of a command.
type Completion struct {
	// OK is false when the reader signalled a transfer error.
	OK bool

	// Data is the byte read; zero for writes.
	Data uint8
}

// Channel is the command/response resource shared by both state
// machines. At most one submission may be outstanding; the completion
// must be consumed via Take before the next Submit.
type Channel interface {
	// Submit starts one register access.
	Submit(Command) error

	// Tick advances the channel by one step.
	Tick()

	// Take returns the completed access, consuming it.
	Take() (Completion, bool)

	// Abandon drops any in-flight command and pending completion.
	// The watchdog path uses this; the abandoned response is never
	// delivered.
	Abandon()
}
