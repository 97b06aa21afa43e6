package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Solve Times (s)", []Series{
		{Name: "time", Values: []float64{12, 11, 13, 10, 12}},
		{Name: "ao12", Values: []float64{12, 11.5, 12}},
	}, 20, 6)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Solve Times (s)") {
		t.Fatal("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatal("expected legend in output")
	}
	if !strings.Contains(out, "13.0") || !strings.Contains(out, "10.0") {
		t.Fatalf("expected shared axis min/max labels, got:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 1+6+1 {
		t.Fatalf("expected at least %d lines of output, got %d", 8, len(lines))
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 20, 6); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if w := PlotWidthFor(80); w <= 0 || w >= 80 {
		t.Fatalf("unexpected plot width %d for total 80", w)
	}
	if w := PlotWidthFor(0); w != minPlotWidth {
		t.Fatalf("expected fallback width %d, got %d", minPlotWidth, w)
	}
	if w := PlotWidthFor(5); w != minPlotWidth {
		t.Fatalf("narrow totals clamp to %d, got %d", minPlotWidth, w)
	}
}
