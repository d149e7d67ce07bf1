package transport

// Owner identifies which state machine holds the channel.
type Owner uint8

const (
	// OwnerDetector grants the channel to the Card Detector.
	OwnerDetector Owner = 0

	// OwnerAuth grants the channel to the Authentication Controller.
	OwnerAuth Owner = 1
)

// String returns the owner name.
func (o Owner) String() string {
	switch o {
	case OwnerDetector:
		return "DETECTOR"
	case OwnerAuth:
		return "AUTH"
	default:
		return "UNKNOWN"
	}
}

// Decide is the arbitration rule: the detector owns the channel unless
// the Authentication Controller is active or the detector has completed
// selection and is about to hand off.
func Decide(detectorReady, authActive bool) Owner {
	if authActive || detectorReady {
		return OwnerAuth
	}
	return OwnerDetector
}

// Arbiter holds the ownership token for a Channel. It carries no state
// beyond the current owner; the engine re-evaluates Decide every tick
// and applies the result through SetOwner.
type Arbiter struct {
	ch    Channel
	owner Owner
}

// NewArbiter creates an Arbiter granting ch to the detector.
func NewArbiter(ch Channel) *Arbiter {
	return &Arbiter{ch: ch, owner: OwnerDetector}
}

// Owner returns the current token holder.
func (a *Arbiter) Owner() Owner {
	return a.owner
}

// SetOwner transfers the token. A transfer abandons any in-flight
// command: ownership only changes at session boundaries or on a
// watchdog abort, and in both cases the old owner's response must not
// leak to the new one.
func (a *Arbiter) SetOwner(o Owner) {
	if o == a.owner {
		return
	}
	a.ch.Abandon()
	a.owner = o
}

// Port returns the submission endpoint for one machine. Submissions and
// completions pass through only while that machine holds the token.
func (a *Arbiter) Port(o Owner) *Port {
	return &Port{arbiter: a, owner: o}
}

// Port is a machine's view of the shared channel. A Port whose owner
// does not hold the token rejects submissions with ErrNotGranted and
// reports no completions.
type Port struct {
	arbiter *Arbiter
	owner   Owner
}

// Submit forwards the command to the channel if this port holds the
// token.
func (p *Port) Submit(c Command) error {
	if p.arbiter.owner != p.owner {
		return ErrNotGranted
	}
	return p.arbiter.ch.Submit(c)
}

// Take consumes the completed command if this port holds the token.
func (p *Port) Take() (Completion, bool) {
	if p.arbiter.owner != p.owner {
		return Completion{}, false
	}
	return p.arbiter.ch.Take()
}
