// Package goals compares session aggregates against a benchmark table.
package goals

import "github.com/dkranz/cubetimer/internal/model"

// Benchmark holds the targets: phase durations in seconds, rotations as a
// count.
type Benchmark struct {
	Phase1s   float64
	Phase2s   float64
	Phase3s   float64
	Rotations float64
}

// DefaultBenchmark targets a roughly sub-15 solve shape.
func DefaultBenchmark() Benchmark {
	return Benchmark{
		Phase1s:   3.5,
		Phase2s:   7.0,
		Phase3s:   3.5,
		Rotations: 2.0,
	}
}

// Aggregates are a session's goal-relevant averages. Each value is defined
// only when at least one result carries the underlying data.
type Aggregates struct {
	Phase1s      float64
	Phase2s      float64
	Phase3s      float64
	HasPhases    bool
	Rotations    float64
	HasRotations bool
}

// Aggregate averages phase estimates over every result carrying a ratio
// snapshot and second-phase rotations over every result carrying that
// metric. Phase estimates apportion the raw measured duration using each
// result's own snapshot.
func Aggregate(s *model.Session) Aggregates {
	var agg Aggregates
	var p1, p2, p3 float64
	phaseCount := 0
	var rotations float64
	rotationCount := 0

	for _, r := range s.Results {
		if r.Splits != nil {
			phases := model.PhasesFor(r.DurationMs, *r.Splits)
			p1 += phases.Phase1Ms
			p2 += phases.Phase2Ms
			p3 += phases.Phase3Ms
			phaseCount++
		}
		if r.Metrics != nil && r.Metrics.Phase2Rotations != nil {
			rotations += float64(*r.Metrics.Phase2Rotations)
			rotationCount++
		}
	}

	if phaseCount > 0 {
		n := float64(phaseCount)
		agg.Phase1s = p1 / n / 1000
		agg.Phase2s = p2 / n / 1000
		agg.Phase3s = p3 / n / 1000
		agg.HasPhases = true
	}
	if rotationCount > 0 {
		agg.Rotations = rotations / float64(rotationCount)
		agg.HasRotations = true
	}
	return agg
}

// Outcome is the result of one benchmark row comparison.
type Outcome int

const (
	OutcomeNoData Outcome = iota
	OutcomePass
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	default:
		return "no data"
	}
}

// Row is one benchmark comparison line.
type Row struct {
	Label      string
	Average    float64
	HasAverage bool
	Target     float64
	Outcome    Outcome
}

// Compare evaluates every benchmark row: pass when average <= target,
// no-data when the aggregate is undefined.
func Compare(bench Benchmark, agg Aggregates) []Row {
	rows := []Row{
		{Label: "Phase 1 (s)", Average: agg.Phase1s, HasAverage: agg.HasPhases, Target: bench.Phase1s},
		{Label: "Phase 2 (s)", Average: agg.Phase2s, HasAverage: agg.HasPhases, Target: bench.Phase2s},
		{Label: "Phase 3 (s)", Average: agg.Phase3s, HasAverage: agg.HasPhases, Target: bench.Phase3s},
		{Label: "Rotations", Average: agg.Rotations, HasAverage: agg.HasRotations, Target: bench.Rotations},
	}
	for i := range rows {
		if !rows[i].HasAverage {
			rows[i].Outcome = OutcomeNoData
			continue
		}
		if rows[i].Average <= rows[i].Target {
			rows[i].Outcome = OutcomePass
		} else {
			rows[i].Outcome = OutcomeFail
		}
	}
	return rows
}
