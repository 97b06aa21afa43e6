package timefmt

import (
	"testing"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		entry   string
		wantMs  int64
		wantPen model.Penalty
	}{
		{"1:05.32", 65320, model.PenaltyNone},
		{"12.5+", 12500, model.PenaltyPlusTwo},
		{"12.5+2", 12500, model.PenaltyPlusTwo},
		{"9", 9000, model.PenaltyNone},
		{"0:45", 45000, model.PenaltyNone},
		{"dnf", 0, model.PenaltyVoid},
		{"DNF", 0, model.PenaltyVoid},
		{" 8.21 ", 8210, model.PenaltyNone},
	}
	for _, tt := range tests {
		ms, pen, err := ParseEntry(tt.entry)
		if err != nil {
			t.Errorf("ParseEntry(%q) unexpected error: %v", tt.entry, err)
			continue
		}
		if ms != tt.wantMs || pen != tt.wantPen {
			t.Errorf("ParseEntry(%q) = (%d, %v), want (%d, %v)", tt.entry, ms, pen, tt.wantMs, tt.wantPen)
		}
	}
}

func TestParseEntryRejects(t *testing.T) {
	rejected := []string{"abc", "0", "-5", "", "1:xx", "1:05:32", "61:00.0", "+"}
	for _, entry := range rejected {
		if _, _, err := ParseEntry(entry); err == nil {
			t.Errorf("ParseEntry(%q) expected error", entry)
		} else if !apperrors.IsInvalidInput(err) {
			t.Errorf("ParseEntry(%q) error not classified as invalid input: %v", entry, err)
		}
	}
}

func TestParseEntryHourBoundary(t *testing.T) {
	if _, _, err := ParseEntry("60:00"); err != nil {
		t.Errorf("exactly one hour should parse: %v", err)
	}
	if _, _, err := ParseEntry("60:00.01"); err == nil {
		t.Error("over one hour should be rejected")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{12500, "12.50"},
		{65320, "1:05.32"},
		{900, "0.90"},
		{0, "0.00"},
		{60000, "1:00.00"},
	}
	for _, tt := range tests {
		if got := Format(tt.ms); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	if got := FormatResult(model.Result{DurationMs: 9000, Penalty: model.PenaltyPlusTwo}); got != "11.00+" {
		t.Errorf("plus-two render = %q, want 11.00+", got)
	}
	if got := FormatResult(model.Result{DurationMs: 9000, Penalty: model.PenaltyVoid}); got != "DNF" {
		t.Errorf("void render = %q, want DNF", got)
	}
	if got := FormatResult(model.Result{DurationMs: 9000}); got != "9.00" {
		t.Errorf("plain render = %q, want 9.00", got)
	}
}
