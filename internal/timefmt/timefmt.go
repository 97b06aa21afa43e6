// Package timefmt formats solve durations and parses manual time entries.
package timefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
)

// MaxEntryMs is the largest duration a manual entry may carry (one hour).
const MaxEntryMs int64 = 3600000

// Format renders a millisecond duration with centisecond precision,
// switching to M:SS.cc past one minute.
func Format(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	centis := (ms % 60000) / 10
	minutes := ms / 60000
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d.%02d", minutes, centis/100, centis%100)
	}
	return fmt.Sprintf("%d.%02d", centis/100, centis%100)
}

// FormatResult renders a result's display time: DNF for a void attempt,
// the penalized time with a trailing + for a plus-two.
func FormatResult(r model.Result) string {
	switch r.Penalty {
	case model.PenaltyVoid:
		return "DNF"
	case model.PenaltyPlusTwo:
		return Format(r.DurationMs+model.PlusTwoMs) + "+"
	default:
		return Format(r.DurationMs)
	}
}

// FormatValue renders an effective-time value; infinity renders as DNF.
func FormatValue(ms float64) string {
	if math.IsInf(ms, 1) {
		return "DNF"
	}
	return Format(int64(math.Round(ms)))
}

// ParseEntry parses a manually typed time. "dnf" (any case) yields a void
// result with a zero duration. A trailing "+" or "+2" applies a plus-two
// penalty and is stripped before the numeric parse. The numeric body is
// either SS[.fraction] or MM:SS[.fraction]; values that fail to parse, are
// non-positive, or exceed one hour are rejected.
func ParseEntry(entry string) (durationMs int64, penalty model.Penalty, err error) {
	s := strings.TrimSpace(entry)
	if strings.EqualFold(s, "dnf") {
		return 0, model.PenaltyVoid, nil
	}

	if strings.HasSuffix(s, "+2") {
		penalty = model.PenaltyPlusTwo
		s = strings.TrimSpace(strings.TrimSuffix(s, "+2"))
	} else if strings.HasSuffix(s, "+") {
		penalty = model.PenaltyPlusTwo
		s = strings.TrimSpace(strings.TrimSuffix(s, "+"))
	}

	durationMs, err = parseDuration(s)
	if err != nil {
		return 0, model.PenaltyNone, err
	}
	return durationMs, penalty, nil
}

func parseDuration(s string) (int64, error) {
	if s == "" {
		return 0, apperrors.NewInvalidInput("empty time entry")
	}
	var minutes int64
	secPart := s
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		m, err := strconv.ParseInt(s[:idx], 10, 64)
		if err != nil || m < 0 {
			return 0, apperrors.NewInvalidInput(fmt.Sprintf("invalid minutes in %q", s))
		}
		minutes = m
		secPart = s[idx+1:]
	}
	seconds, err := strconv.ParseFloat(secPart, 64)
	if err != nil || seconds < 0 {
		return 0, apperrors.NewInvalidInput(fmt.Sprintf("invalid seconds in %q", s))
	}
	ms := minutes*60000 + int64(math.Round(seconds*1000))
	if ms <= 0 {
		return 0, apperrors.NewInvalidInput("time entry must be positive")
	}
	if ms > MaxEntryMs {
		return 0, apperrors.NewInvalidInput("time entry exceeds one hour")
	}
	return ms, nil
}
