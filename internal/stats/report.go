// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/dkranz/cubetimer/internal/goals"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/timefmt"
)

const noData = "-"

// RenderSummary prints the aggregate statistics for one session.
func RenderSummary(w io.Writer, s *model.Session) error {
	sum := Summarize(s.Results)
	if _, err := fmt.Fprintf(w, "%s (%s)\n", s.Name, s.Type); err != nil {
		return err
	}
	if sum.Count == 0 {
		_, err := fmt.Fprintln(w, "No solves yet.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Solves: %d (%d DNF)\n", sum.Count, sum.Voids); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best: %s  Worst: %s  Mean: %s\n",
		optional(sum.Best, sum.HasBest),
		optional(sum.Worst, sum.HasWorst),
		optional(sum.Mean, sum.HasMean)); err != nil {
		return err
	}

	headers := []string{"", "Current", "Best"}
	rows := make([][]string, 0, len(sum.Rolling))
	for _, rv := range sum.Rolling {
		rows = append(rows, []string{
			fmt.Sprintf("ao%d", rv.N),
			optional(rv.Current, rv.HasCur),
			optional(rv.Best, rv.HasBest),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSolves prints the solve list for one session, most recent last.
func RenderSolves(w io.Writer, s *model.Session) error {
	if len(s.Results) == 0 {
		return nil
	}
	headers := []string{"#", "Time", "Source", "Scramble"}
	rows := make([][]string, 0, len(s.Results))
	for i, r := range s.Results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			timefmt.FormatResult(r),
			r.Source.String(),
			r.Scramble,
		})
	}
	rightAlign := map[int]bool{0: true, 1: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderGoals prints the benchmark comparison for one session.
func RenderGoals(w io.Writer, s *model.Session, bench goals.Benchmark) error {
	rows := goals.Compare(bench, goals.Aggregate(s))
	if _, err := fmt.Fprintln(w, "Goals"); err != nil {
		return err
	}
	headers := []string{"", "Average", "Target", ""}
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		avg := noData
		if row.HasAverage {
			avg = fmt.Sprintf("%.2f", row.Average)
		}
		tableRows = append(tableRows, []string{
			row.Label,
			avg,
			fmt.Sprintf("%.2f", row.Target),
			row.Outcome.String(),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints the solve-time trend plot with a rolling overlay.
func RenderTrend(w io.Writer, s *model.Session, totalWidth, height int, useColor bool) error {
	values := make([]float64, 0, len(s.Results))
	for _, r := range s.Results {
		if r.Penalty == model.PenaltyVoid {
			continue
		}
		values = append(values, r.EffectiveTime()/1000.0)
	}
	if len(values) < 2 {
		return nil
	}
	rolling := make([]float64, 0, len(s.Results))
	for _, v := range RollingSeries(s.Results, 12) {
		if math.IsNaN(v) {
			continue
		}
		rolling = append(rolling, v/1000.0)
	}

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	series := []Series{{Name: "time", Values: values}}
	if len(rolling) > 0 {
		series = append(series, Series{Name: "ao12", Values: rolling})
	}
	return PlotSeriesWithColor(w, "Solve Times (s)", series, width, height, useColor)
}

func optional(ms float64, ok bool) string {
	if !ok {
		return noData
	}
	return timefmt.FormatValue(ms)
}
