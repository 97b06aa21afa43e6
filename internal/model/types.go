// Package model defines shared data structures.
package model

import (
	"math"
	"time"
)

// PlusTwoMs is the fixed penalty added to a plus-two solve at scoring time.
const PlusTwoMs int64 = 2000

// Penalty marks how a solve counts toward statistics.
type Penalty int

const (
	PenaltyNone Penalty = iota
	PenaltyPlusTwo
	PenaltyVoid
)

func (p Penalty) String() string {
	switch p {
	case PenaltyPlusTwo:
		return "+2"
	case PenaltyVoid:
		return "DNF"
	default:
		return ""
	}
}

// Source records how a result entered the session.
type Source int

const (
	SourceTimed Source = iota
	SourceTyped
)

func (s Source) String() string {
	if s == SourceTyped {
		return "typed"
	}
	return "timed"
}

// SplitRatios holds the two phase boundary ratios, 0 < R1 < R2 < 1.
type SplitRatios struct {
	R1 float64
	R2 float64
}

// Valid reports whether the ratios describe three non-empty ordered phases.
func (r SplitRatios) Valid() bool {
	return r.R1 > 0 && r.R1 < r.R2 && r.R2 < 1
}

// PhaseDurations is the estimated apportionment of one solve into three phases.
type PhaseDurations struct {
	Phase1Ms float64
	Phase2Ms float64
	Phase3Ms float64
}

// PhasesFor derives the three phase durations from a total and a ratio pair.
func PhasesFor(durationMs int64, r SplitRatios) PhaseDurations {
	d := float64(durationMs)
	return PhaseDurations{
		Phase1Ms: d * r.R1,
		Phase2Ms: d * (r.R2 - r.R1),
		Phase3Ms: d * (1 - r.R2),
	}
}

// Metrics holds optional per-solve efficiency observations. A nil field means
// the value was never recorded, which is distinct from a recorded zero/false.
type Metrics struct {
	Phase1Moves            *int
	Phase1Rotations        *int
	Phase2Rotations        *int
	Phase2Pause            *bool
	Phase3RecognitionDelay *bool
}

// Result is one timed attempt. DurationMs and Scramble are immutable after
// creation; Penalty, Splits, and Metrics may each be set at most once.
type Result struct {
	ID         int64
	DurationMs int64
	Penalty    Penalty
	Splits     *SplitRatios
	Metrics    *Metrics
	Scramble   string
	Source     Source
}

// EffectiveTime projects the result onto its scoring value in milliseconds:
// +Inf for a void attempt, duration plus the fixed penalty for a plus-two.
// Every aggregate computation routes through this projection.
func (r Result) EffectiveTime() float64 {
	switch r.Penalty {
	case PenaltyVoid:
		return math.Inf(1)
	case PenaltyPlusTwo:
		return float64(r.DurationMs + PlusTwoMs)
	default:
		return float64(r.DurationMs)
	}
}

// SessionType labels a practice session. The engine never branches on it.
type SessionType string

const (
	SessionNormal    SessionType = "normal"
	SessionCross     SessionType = "cross"
	SessionF2LPairs  SessionType = "f2l-pairs"
	SessionLastLayer SessionType = "last-layer"
	SessionOneHanded SessionType = "one-handed"
	SessionBlind     SessionType = "blind"
)

// SessionTypes lists every session label in display order.
var SessionTypes = []SessionType{
	SessionNormal,
	SessionCross,
	SessionF2LPairs,
	SessionLastLayer,
	SessionOneHanded,
	SessionBlind,
}

// Session is a named ordered sequence of results.
type Session struct {
	ID        int64
	Type      SessionType
	Name      string
	Results   []Result
	CreatedAt time.Time
}

// Settings holds feature toggles for the interactive timer.
type Settings struct {
	InspectionEnabled bool
	InspectionSeconds int
	SplitsEnabled     bool
}

// DefaultSettings mirrors competition-style defaults.
func DefaultSettings() Settings {
	return Settings{
		InspectionEnabled: false,
		InspectionSeconds: 15,
		SplitsEnabled:     true,
	}
}

// DefaultSplitRatios is the mesh split pair used until the user adjusts it.
var DefaultSplitRatios = SplitRatios{R1: 0.2, R2: 0.65}

// Collection owns every session plus global state. Exactly one session is
// current at a time, tracked here by id rather than by the session itself.
type Collection struct {
	Sessions   []*Session
	CurrentID  int64
	Settings   Settings
	MeshSplits SplitRatios

	NextSessionID int64
	NextResultID  int64
}
