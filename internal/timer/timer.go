// Package timer implements the solve timing state machine.
//
// The machine has four states: Idle, Ready (armed, waiting for the start
// trigger), Countdown (inspection running), and Running (solve in flight).
// Only one tick source may be live at a time. Every transition bumps a
// generation counter and tick delivery carries the generation it was
// scheduled under, so a tick from a cancelled source is ignored no matter
// when it arrives.
package timer

import "time"

// Tick cadences for the two tick sources.
const (
	RunningTickInterval   = 10 * time.Millisecond
	CountdownTickInterval = time.Second
)

// Inspection overrun thresholds, in seconds past zero.
const (
	overrunPlusTwo = 0
	overrunExpired = 2
)

// State is the machine's current mode.
type State int

const (
	StateIdle State = iota
	StateReady
	StateCountdown
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// Clock supplies monotonic time. Go's time.Now carries a monotonic reading,
// so the system clock is immune to wall-clock adjustment.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real monotonic clock.
func SystemClock() Clock { return systemClock{} }

// Machine is the timing state machine. It is driven entirely by discrete
// events on a single goroutine; no locking.
type Machine struct {
	clock Clock
	state State
	gen   uint64

	inspectionSeconds int
	countdownStart    time.Time
	pendingPenalty    pendingPenalty

	startedAt time.Time
	elapsedMs int64
}

type pendingPenalty int

const (
	penaltyNone pendingPenalty = iota
	penaltyPlusTwo
)

// New returns an idle machine reading time from the given clock.
func New(clock Clock) *Machine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Machine{clock: clock}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Generation returns the live tick generation. Ticks scheduled under an
// older generation are stale.
func (m *Machine) Generation() uint64 { return m.gen }

// Arm moves Idle to Ready. Returns false in any other state.
func (m *Machine) Arm() bool {
	if m.state != StateIdle {
		return false
	}
	m.transition(StateReady)
	return true
}

// StartCountdown begins inspection from Idle or Ready. Returns the tick
// generation the caller should schedule countdown ticks under.
func (m *Machine) StartCountdown(seconds int) (uint64, bool) {
	if m.state != StateIdle && m.state != StateReady {
		return 0, false
	}
	if seconds <= 0 {
		seconds = 15
	}
	m.inspectionSeconds = seconds
	m.countdownStart = m.clock.Now()
	m.pendingPenalty = penaltyNone
	m.transition(StateCountdown)
	return m.gen, true
}

// CountdownTick processes one countdown tick. Stale generations are
// ignored. Returns the remaining whole seconds and whether the countdown is
// still live; overrun past the plus-two threshold arms a pending penalty,
// past the expiry threshold the attempt is discarded back to Idle.
func (m *Machine) CountdownTick(gen uint64) (remaining int, live bool) {
	if m.state != StateCountdown || gen != m.gen {
		return 0, false
	}
	elapsed := int(m.clock.Now().Sub(m.countdownStart) / time.Second)
	remaining = m.inspectionSeconds - elapsed
	if remaining <= -overrunExpired {
		m.Cancel()
		return 0, false
	}
	if remaining <= overrunPlusTwo {
		m.pendingPenalty = penaltyPlusTwo
	}
	return remaining, true
}

// InspectionRemaining returns the whole seconds left in the countdown.
func (m *Machine) InspectionRemaining() int {
	if m.state != StateCountdown {
		return 0
	}
	elapsed := int(m.clock.Now().Sub(m.countdownStart) / time.Second)
	return m.inspectionSeconds - elapsed
}

// Start begins the solve from Idle, Ready, or Countdown. The transition
// kills the countdown tick source before the running one starts. Returns
// the running tick generation.
func (m *Machine) Start() (uint64, bool) {
	switch m.state {
	case StateIdle, StateReady, StateCountdown:
		m.startedAt = m.clock.Now()
		m.elapsedMs = 0
		m.transition(StateRunning)
		return m.gen, true
	default:
		return 0, false
	}
}

// RunningTick processes one running tick, updating the displayed elapsed
// time. Stale generations are ignored.
func (m *Machine) RunningTick(gen uint64) (elapsedMs int64, live bool) {
	if m.state != StateRunning || gen != m.gen {
		return m.elapsedMs, false
	}
	m.elapsedMs = m.clock.Now().Sub(m.startedAt).Milliseconds()
	return m.elapsedMs, true
}

// ElapsedMs returns the last observed running time.
func (m *Machine) ElapsedMs() int64 { return m.elapsedMs }

// Stop ends the solve, returning the measured duration and whether an
// inspection overrun penalty is owed. Only valid while Running.
func (m *Machine) Stop() (durationMs int64, plusTwo bool, ok bool) {
	if m.state != StateRunning {
		return 0, false, false
	}
	durationMs = m.clock.Now().Sub(m.startedAt).Milliseconds()
	m.elapsedMs = durationMs
	plusTwo = m.pendingPenalty == penaltyPlusTwo
	m.pendingPenalty = penaltyNone
	m.transition(StateIdle)
	return durationMs, plusTwo, true
}

// Cancel aborts any in-progress countdown or solve: back to Idle, no result
// produced, any scheduled tick source invalidated.
func (m *Machine) Cancel() {
	m.pendingPenalty = penaltyNone
	m.elapsedMs = 0
	m.transition(StateIdle)
}

func (m *Machine) transition(next State) {
	m.state = next
	m.gen++
}
