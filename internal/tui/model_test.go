package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/scramble"
	"github.com/dkranz/cubetimer/internal/session"
)

func newTestModel() *Model {
	c := session.NewCollection()
	return NewModel(c, nil, scramble.NewSeeded(7))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		if next.(*Model) != m {
			t.Fatalf("update returned a different model")
		}
	}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	for _, r := range text {
		send(t, m, string(r))
	}
}

func TestManualEntryAppendsTypedResult(t *testing.T) {
	m := newTestModel()
	before := m.scramble

	send(t, m, "t")
	typeText(t, m, "12.5+")
	send(t, m, "enter")

	cur := session.Current(m.collection)
	if len(cur.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(cur.Results))
	}
	r := cur.Results[0]
	if r.DurationMs != 12500 || r.Penalty != model.PenaltyPlusTwo {
		t.Fatalf("got %d ms penalty %v", r.DurationMs, r.Penalty)
	}
	if r.Source != model.SourceTyped {
		t.Fatalf("expected typed source, got %v", r.Source)
	}
	if m.scramble != before {
		t.Fatalf("manual entry must not consume the scramble")
	}
}

func TestManualEntryRejectsGarbage(t *testing.T) {
	m := newTestModel()
	send(t, m, "t")
	typeText(t, m, "abc")
	send(t, m, "enter")

	if n := len(session.Current(m.collection).Results); n != 0 {
		t.Fatalf("expected no results, got %d", n)
	}
	if m.message == "" {
		t.Fatal("expected an error message")
	}
}

func TestPenaltyKeysAreSetOnce(t *testing.T) {
	m := newTestModel()
	send(t, m, "t")
	typeText(t, m, "10")
	send(t, m, "enter")

	send(t, m, "2")
	cur := session.Current(m.collection)
	if cur.Results[0].Penalty != model.PenaltyPlusTwo {
		t.Fatalf("expected +2, got %v", cur.Results[0].Penalty)
	}

	send(t, m, "d")
	if cur.Results[0].Penalty != model.PenaltyPlusTwo {
		t.Fatalf("second penalty must not overwrite, got %v", cur.Results[0].Penalty)
	}
}

func TestDeleteLastResult(t *testing.T) {
	m := newTestModel()
	send(t, m, "t")
	typeText(t, m, "10")
	send(t, m, "enter")
	send(t, m, "x")

	if n := len(session.Current(m.collection).Results); n != 0 {
		t.Fatalf("expected empty session, got %d results", n)
	}
}

func TestSessionCreateAndCycle(t *testing.T) {
	m := newTestModel()
	first := session.Current(m.collection).ID

	send(t, m, "n")
	second := session.Current(m.collection).ID
	if second == first {
		t.Fatal("expected a new current session")
	}

	send(t, m, "tab")
	if got := session.Current(m.collection).ID; got != first {
		t.Fatalf("cycle landed on %d, want %d", got, first)
	}
}

func TestRenameSession(t *testing.T) {
	m := newTestModel()
	send(t, m, "r")
	typeText(t, m, "OH drills")
	send(t, m, "enter")

	if got := session.Current(m.collection).Name; got != "OH drills" {
		t.Fatalf("got name %q", got)
	}
}

func TestRatioNudgeStaysClamped(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 20; i++ {
		send(t, m, "]")
	}
	r := m.collection.MeshSplits
	if r.R1 > r.R2-0.1+1e-9 {
		t.Fatalf("gap violated: %.2f / %.2f", r.R1, r.R2)
	}
	for i := 0; i < 20; i++ {
		send(t, m, "{")
	}
	r = m.collection.MeshSplits
	if r.R2 < 0.5 || r.R1 > r.R2-0.1+1e-9 {
		t.Fatalf("clamp violated: %.2f / %.2f", r.R1, r.R2)
	}
}

func TestScrambleRerollChangesLine(t *testing.T) {
	m := newTestModel()
	before := m.scramble
	send(t, m, "s")
	if m.scramble == before {
		t.Fatal("expected a fresh scramble")
	}
	if len(strings.Fields(m.scramble)) != scramble.Length {
		t.Fatalf("scramble has %d moves", len(strings.Fields(m.scramble)))
	}
}

func TestViewShowsSessionAndScramble(t *testing.T) {
	m := newTestModel()
	m.width = 100
	m.height = 30
	view := m.View()
	if !strings.Contains(view, session.Current(m.collection).Name) {
		t.Fatal("view missing session name")
	}
	if !strings.Contains(view, "0.00") {
		t.Fatal("view missing idle clock")
	}
}

func TestParseYesNo(t *testing.T) {
	cases := []struct {
		in    string
		value bool
		ok    bool
	}{
		{"y", true, true},
		{"Yes", true, true},
		{"n", false, true},
		{"no", false, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		v, ok := parseYesNo(tc.in)
		if v != tc.value || ok != tc.ok {
			t.Errorf("parseYesNo(%q) = %v, %v", tc.in, v, ok)
		}
	}
}
