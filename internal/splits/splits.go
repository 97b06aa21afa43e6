// Package splits estimates per-phase durations and drives the solve
// completion protocol.
package splits

import (
	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
)

// Clamp bounds for the two boundary ratios. The 0.1 gap keeps the middle
// phase at least 10% of the total duration.
const (
	R1Min  = 0.1
	R1Max  = 0.4
	R2Min  = 0.5
	R2Max  = 0.9
	MinGap = 0.1
)

// Phases derives the three phase durations for display and storage.
func Phases(durationMs int64, r model.SplitRatios) model.PhaseDurations {
	return model.PhasesFor(durationMs, r)
}

// ClampRatio applies a proposed boundary value to the ratio pair. Index 0
// moves the phase1/phase2 boundary, index 1 the phase2/phase3 boundary.
// The result always satisfies 0.1 <= r1 <= r2-0.1 and r1+0.1 <= r2 <= 0.9.
func ClampRatio(current model.SplitRatios, index int, proposed float64) model.SplitRatios {
	out := current
	switch index {
	case 0:
		v := clamp(proposed, R1Min, R1Max)
		if v > current.R2-MinGap {
			v = current.R2 - MinGap
		}
		out.R1 = v
	case 1:
		v := clamp(proposed, R2Min, R2Max)
		if v < current.R1+MinGap {
			v = current.R1 + MinGap
		}
		out.R2 = v
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pending is a solve awaiting completion: the measured duration and ratio
// snapshot are fixed, metrics may be attached at most once, then the result
// is finalized and handed back for appending to the current session.
type Pending struct {
	durationMs int64
	scramble   string
	ratios     model.SplitRatios
	penalty    model.Penalty
	metrics    *model.Metrics
	finalized  bool
}

// BeginCompletion opens the completion protocol for a timed solve and
// returns the derived phase durations for display.
func BeginCompletion(durationMs int64, scramble string, ratios model.SplitRatios) (*Pending, model.PhaseDurations) {
	p := &Pending{
		durationMs: durationMs,
		scramble:   scramble,
		ratios:     ratios,
	}
	return p, Phases(durationMs, ratios)
}

// WithPenalty carries an inspection penalty into the finished result.
func (p *Pending) WithPenalty(penalty model.Penalty) *Pending {
	p.penalty = penalty
	return p
}

// Phases returns the derived phase durations for this pending solve.
func (p *Pending) Phases() model.PhaseDurations {
	return Phases(p.durationMs, p.ratios)
}

// AttachMetrics records the efficiency metrics, at most once.
func (p *Pending) AttachMetrics(m model.Metrics) error {
	if p.finalized {
		return apperrors.NewInvalidInput("solve already finalized")
	}
	if p.metrics != nil {
		return apperrors.NewInvalidInput("metrics already recorded")
	}
	copied := m
	p.metrics = &copied
	return nil
}

// Finalize produces the finished result. The ratio snapshot is stored
// whether or not metrics were entered; splits depend only on duration and
// ratios.
func (p *Pending) Finalize() model.Result {
	p.finalized = true
	ratios := p.ratios
	return model.Result{
		DurationMs: p.durationMs,
		Penalty:    p.penalty,
		Splits:     &ratios,
		Metrics:    p.metrics,
		Scramble:   p.scramble,
		Source:     model.SourceTimed,
	}
}

// Skip finalizes without metrics.
func (p *Pending) Skip() model.Result {
	p.metrics = nil
	return p.Finalize()
}

// TimedResult builds a finished timed result outside the split-capture
// protocol, used when the splits feature is disabled.
func TimedResult(durationMs int64, scramble string, penalty model.Penalty) model.Result {
	return model.Result{
		DurationMs: durationMs,
		Penalty:    penalty,
		Scramble:   scramble,
		Source:     model.SourceTimed,
	}
}

// TypedResult builds a manually entered result. Typed entries never pass
// through split capture, so no ratio snapshot is attached.
func TypedResult(durationMs int64, penalty model.Penalty) model.Result {
	return model.Result{
		DurationMs: durationMs,
		Penalty:    penalty,
		Source:     model.SourceTyped,
	}
}
