package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkranz/cubetimer/internal/goals"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/session"
	"github.com/dkranz/cubetimer/internal/splits"
)

func seededCollection(t *testing.T) *model.Collection {
	t.Helper()
	c := session.NewCollection()
	cur := session.Current(c)
	for _, ms := range []int64{12000, 11000, 13000, 12500, 11500} {
		if _, err := session.Append(c, cur.ID, splits.TimedResult(ms, "R U R' U'", model.PenaltyNone)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	second := session.Create(c, model.SessionOneHanded)
	if _, err := session.Append(c, second.ID, splits.TypedResult(20000, model.PenaltyNone)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := session.SetCurrent(c, cur.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}
	return c
}

func sized(m *Model) *Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(*Model)
}

func TestOverviewShowsSummary(t *testing.T) {
	m := sized(NewModel(seededCollection(t), goals.DefaultBenchmark()))
	view := m.View()
	if !strings.Contains(view, "Solves") {
		t.Fatal("overview missing solve count card")
	}
	if !strings.Contains(view, "11.00") {
		t.Fatal("overview missing best time")
	}
}

func TestSessionSwitchingWraps(t *testing.T) {
	c := seededCollection(t)
	m := sized(NewModel(c, goals.DefaultBenchmark()))
	if got := m.session().ID; got != c.CurrentID {
		t.Fatalf("initial session %d, want current %d", got, c.CurrentID)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(*Model)
	if m.session().ID == c.CurrentID {
		t.Fatal("tab did not switch session")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(*Model)
	if got := m.session().ID; got != c.CurrentID {
		t.Fatalf("expected wrap back to %d, got %d", c.CurrentID, got)
	}
}

func TestTabNavigationReachesGoals(t *testing.T) {
	m := sized(NewModel(seededCollection(t), goals.DefaultBenchmark()))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(*Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(*Model)
	if m.activeTab != tabGoals {
		t.Fatalf("active tab %d, want %d", m.activeTab, tabGoals)
	}
	if !strings.Contains(m.View(), "Goals") {
		t.Fatal("goals tab missing comparison")
	}
}

func TestSolveTableListsResults(t *testing.T) {
	m := sized(NewModel(seededCollection(t), goals.DefaultBenchmark()))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = next.(*Model)
	if m.activeTab != tabSolves {
		t.Fatalf("active tab %d, want %d", m.activeTab, tabSolves)
	}
	view := m.View()
	if !strings.Contains(view, "R U R' U'") {
		t.Fatal("solve table missing scramble")
	}
}

func TestEmptyCollectionDoesNotPanic(t *testing.T) {
	c := &model.Collection{Settings: model.DefaultSettings(), MeshSplits: model.DefaultSplitRatios}
	m := sized(NewModel(c, goals.DefaultBenchmark()))
	if view := m.View(); !strings.Contains(view, "No sessions") {
		t.Fatal("expected empty-state message")
	}
}
