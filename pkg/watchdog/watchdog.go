package watchdog

import "errors"

// DefaultBudget is the default session budget in ticks. Generous
// against the longest legitimate session (key load, three exchanges,
// four block operations) while still bounding a wedged card.
const DefaultBudget = 100000

// Watchdog errors.
var (
	// ErrInvalidBudget is returned for a zero or negative budget.
	ErrInvalidBudget = errors.New("watchdog: invalid budget")
)

// State represents the watchdog state.
type State uint8

const (
	// StateDisarmed indicates no session is being timed.
	StateDisarmed State = iota

	// StateArmed indicates the counter is running.
	StateArmed

	// StateExpired indicates the budget ran out; the one-shot pulse has
	// fired and the watchdog waits to be disarmed.
	StateExpired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisarmed:
		return "DISARMED"
	case StateArmed:
		return "ARMED"
	case StateExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Watchdog is a tick-driven down-counter. It is driven from the single
// stepping loop and needs no locking.
type Watchdog struct {
	state     State
	budget    int
	remaining int
}

// New creates a watchdog with the default budget.
func New() *Watchdog {
	return &Watchdog{budget: DefaultBudget}
}

// NewWithBudget creates a watchdog with a custom tick budget.
func NewWithBudget(budget int) (*Watchdog, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	return &Watchdog{budget: budget}, nil
}

// State returns the current state.
func (w *Watchdog) State() State {
	return w.state
}

// Remaining returns the ticks left before expiry; zero when not armed.
func (w *Watchdog) Remaining() int {
	if w.state != StateArmed {
		return 0
	}
	return w.remaining
}

// Arm starts the countdown. Re-arming while armed restarts the budget;
// a session can only be armed once because the controller leaves idle
// exactly once per session.
func (w *Watchdog) Arm() {
	w.state = StateArmed
	w.remaining = w.budget
}

// Disarm stops the countdown. Called when the session reaches a
// terminal outcome.
func (w *Watchdog) Disarm() {
	w.state = StateDisarmed
	w.remaining = 0
}

// Tick advances the counter by one step and reports the one-shot
// expiry pulse. It returns true on exactly the tick the budget reaches
// zero.
func (w *Watchdog) Tick() bool {
	if w.state != StateArmed {
		return false
	}
	w.remaining--
	if w.remaining > 0 {
		return false
	}
	w.state = StateExpired
	return true
}
