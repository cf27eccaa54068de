// ============================================================================
// LIFECYCLE — PRODUCER STATE MACHINE
// ============================================================================
//
// Coordinates the INIT -> RUN -> DRAINING -> STOPPED sequence a WAL
// producer goroutine runs through, the same activity/shutdown signaling
// role the teacher's global hot/stop flags played, lifted into a
// per-instance type so more than one producer can run in the same
// process without sharing state through package-level variables.
//
// Architecture:
//   - A single atomic.Int32 holds the current state; transitions are
//     compare-and-swap, so a caller racing another caller on the same
//     transition gets a definitive win/lose rather than a torn update.
//   - SignalActivity/IsActive mirror the teacher's hot-flag cooldown
//     idea: a producer marks itself active on every record, and a
//     dedicated consumer loop can poll whether it's still within the
//     activity window to decide between hot-spin and cold-spin.
//
// Safety guarantees:
//   - Transitions are race-free: Run, Drain, and Stop use CompareAndSwap
//     against the expected prior state and report false on a losing race
//     rather than silently clobbering a concurrent transition.
package lifecycle

import (
	"sync/atomic"
	"time"
)

// State is one stage of the lifecycle FSM.
type State int32

const (
	StateInit State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRunning:
		return "RUN"
	case StateDraining:
		return "DRAINING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// defaultCooldown mirrors the teacher's 1-second hot-flag cooldown: an
// idle period this long downgrades a producer from "active" back to
// quiescent for any consumer polling IsActive.
const defaultCooldown = 1 * time.Second

// Lifecycle is a per-producer INIT/RUN/DRAINING/STOPPED state machine
// plus an activity timestamp for cooldown-based spin-mode decisions.
type Lifecycle struct {
	state    atomic.Int32
	lastHot  atomic.Int64
	cooldown time.Duration
}

// New returns a Lifecycle in StateInit with the default cooldown.
func New() *Lifecycle {
	return &Lifecycle{cooldown: defaultCooldown}
}

// NewWithCooldown returns a Lifecycle in StateInit using cooldown instead
// of the default activity window.
func NewWithCooldown(cooldown time.Duration) *Lifecycle {
	return &Lifecycle{cooldown: cooldown}
}

// State returns the current stage.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Run transitions INIT -> RUN. Returns false if the lifecycle was not in
// INIT.
func (l *Lifecycle) Run() bool {
	return l.state.CompareAndSwap(int32(StateInit), int32(StateRunning))
}

// Drain transitions RUN -> DRAINING. Returns false if the lifecycle was
// not in RUN.
func (l *Lifecycle) Drain() bool {
	return l.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
}

// Stop transitions DRAINING -> STOPPED. Returns false if the lifecycle
// was not in DRAINING.
func (l *Lifecycle) Stop() bool {
	return l.state.CompareAndSwap(int32(StateDraining), int32(StateStopped))
}

// ForceStop transitions directly to STOPPED from any state. Intended for
// error paths that must halt immediately without draining.
func (l *Lifecycle) ForceStop() {
	l.state.Store(int32(StateStopped))
}

// Running reports whether the lifecycle is in RUN.
func (l *Lifecycle) Running() bool {
	return l.State() == StateRunning
}

// Draining reports whether the lifecycle is in DRAINING.
func (l *Lifecycle) Draining() bool {
	return l.State() == StateDraining
}

// Stopped reports whether the lifecycle has reached STOPPED.
func (l *Lifecycle) Stopped() bool {
	return l.State() == StateStopped
}

// SignalActivity marks the producer as active right now. Call once per
// record produced.
func (l *Lifecycle) SignalActivity() {
	l.lastHot.Store(time.Now().UnixNano())
}

// IsActive reports whether SignalActivity was called within the
// configured cooldown window. A consumer loop uses this the same way
// the teacher's PollCooldown fed hot-spin/cold-spin selection.
func (l *Lifecycle) IsActive() bool {
	last := l.lastHot.Load()
	if last == 0 {
		return false
	}
	return time.Now().UnixNano()-last <= l.cooldown.Nanoseconds()
}
