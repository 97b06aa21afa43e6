// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"

	"github.com/dkranz/cubetimer/internal/model"
)

// RollingWindows are the average-of-N window sizes shown in summaries.
var RollingWindows = []int{5, 12, 50, 100}

// Best returns the lowest effective time among non-void results.
func Best(results []model.Result) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, r := range results {
		if r.Penalty == model.PenaltyVoid {
			continue
		}
		if t := r.EffectiveTime(); t < best {
			best = t
		}
		found = true
	}
	return best, found
}

// Worst returns the highest effective time among non-void results.
func Worst(results []model.Result) (float64, bool) {
	worst := math.Inf(-1)
	found := false
	for _, r := range results {
		if r.Penalty == model.PenaltyVoid {
			continue
		}
		if t := r.EffectiveTime(); t > worst {
			worst = t
		}
		found = true
	}
	return worst, found
}

// Mean returns the arithmetic mean of effective times over non-void results.
func Mean(results []model.Result) (float64, bool) {
	var sum float64
	count := 0
	for _, r := range results {
		if r.Penalty == model.PenaltyVoid {
			continue
		}
		sum += r.EffectiveTime()
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// RollingAverage computes the trimmed average of the last n results: the
// single best and single worst of the window are discarded, the remaining
// n-2 averaged. Undefined when fewer than n results exist or more than one
// of the last n is void. A sole void sorts to the worst extreme as infinity
// and is trimmed away; an infinity surviving the trim leaves the average
// undefined rather than averaging non-void values only.
func RollingAverage(results []model.Result, n int) (float64, bool) {
	if n < 3 || len(results) < n {
		return 0, false
	}
	window := results[len(results)-n:]
	voids := 0
	times := make([]float64, 0, n)
	for _, r := range window {
		if r.Penalty == model.PenaltyVoid {
			voids++
		}
		times = append(times, r.EffectiveTime())
	}
	if voids > 1 {
		return 0, false
	}
	sort.Float64s(times)
	trimmed := times[1 : n-1]
	var sum float64
	for _, t := range trimmed {
		if math.IsInf(t, 1) {
			return 0, false
		}
		sum += t
	}
	return sum / float64(len(trimmed)), true
}

// BestRollingAverage returns the lowest average-of-n over every window of
// the sequence.
func BestRollingAverage(results []model.Result, n int) (float64, bool) {
	if n < 3 || len(results) < n {
		return 0, false
	}
	best := math.Inf(1)
	found := false
	for end := n; end <= len(results); end++ {
		if avg, ok := RollingAverage(results[:end], n); ok && avg < best {
			best = avg
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best, true
}

// RollingSeries maps each position to the rolling average ending there; NaN
// marks undefined positions. Used for trend plotting.
func RollingSeries(results []model.Result, n int) []float64 {
	out := make([]float64, len(results))
	for i := range results {
		if avg, ok := RollingAverage(results[:i+1], n); ok {
			out[i] = avg
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// RollingValue pairs a window size with its computed average.
type RollingValue struct {
	N       int
	Current float64
	HasCur  bool
	Best    float64
	HasBest bool
}

// Summary aggregates a session's result sequence.
type Summary struct {
	Count    int
	Solved   int // non-void attempts
	Voids    int
	Best     float64
	HasBest  bool
	Worst    float64
	HasWorst bool
	Mean     float64
	HasMean  bool
	Rolling  []RollingValue
}

// Summarize computes the full statistics summary for a result sequence.
// Stateless: recomputed from scratch after every mutation.
func Summarize(results []model.Result) Summary {
	s := Summary{Count: len(results)}
	for _, r := range results {
		if r.Penalty == model.PenaltyVoid {
			s.Voids++
		} else {
			s.Solved++
		}
	}
	s.Best, s.HasBest = Best(results)
	s.Worst, s.HasWorst = Worst(results)
	s.Mean, s.HasMean = Mean(results)
	for _, n := range RollingWindows {
		rv := RollingValue{N: n}
		rv.Current, rv.HasCur = RollingAverage(results, n)
		rv.Best, rv.HasBest = BestRollingAverage(results, n)
		s.Rolling = append(s.Rolling, rv)
	}
	return s
}
