package store

import (
	"bytes"
	"strings"
	"testing"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/session"
)

func TestExportImportRoundTrip(t *testing.T) {
	c := sampleCollection(t)
	var buf bytes.Buffer
	if err := Export(&buf, c); err != nil {
		t.Fatalf("export: %v", err)
	}

	target := session.NewCollection()
	if err := Import(&buf, target); err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(target.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(target.Sessions))
	}
	if target.CurrentID != target.Sessions[0].ID {
		t.Fatal("import must select the first imported session")
	}
	for i, want := range c.Sessions {
		got := target.Sessions[i]
		if got.Name != want.Name || got.ID != want.ID {
			t.Errorf("session %d = (%d, %q), want (%d, %q)", i, got.ID, got.Name, want.ID, want.Name)
		}
		if len(got.Results) != len(want.Results) {
			t.Fatalf("session %d result count = %d, want %d", i, len(got.Results), len(want.Results))
		}
		for j, wr := range want.Results {
			gr := got.Results[j]
			if gr.DurationMs != wr.DurationMs || gr.Penalty != wr.Penalty || gr.ID != wr.ID {
				t.Errorf("result %d/%d = %+v, want %+v", i, j, gr, wr)
			}
		}
	}
	r0 := target.Sessions[0].Results[0]
	if r0.Metrics == nil || r0.Metrics.Phase1Moves == nil || *r0.Metrics.Phase1Moves != 8 {
		t.Error("metrics lost in export round trip")
	}
	if r0.Splits == nil || r0.Splits.R1 != 0.25 {
		t.Error("splits lost in export round trip")
	}
	if target.MeshSplits != c.MeshSplits {
		t.Errorf("mesh splits = %+v, want %+v", target.MeshSplits, c.MeshSplits)
	}
	if !target.Settings.InspectionEnabled {
		t.Error("settings lost in export round trip")
	}
}

func TestImportMalformedUntouched(t *testing.T) {
	c := session.NewCollection()
	before := len(c.Sessions)
	err := Import(strings.NewReader("{not json"), c)
	if !apperrors.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if len(c.Sessions) != before {
		t.Fatal("malformed import must not mutate the collection")
	}
}

func TestImportMissingKeysKeepsPriorState(t *testing.T) {
	c := session.NewCollection()
	c.MeshSplits = model.SplitRatios{R1: 0.3, R2: 0.8}
	c.Settings.InspectionSeconds = 12
	priorSessions := len(c.Sessions)

	doc := `{"exportedAt":"2024-01-01T00:00:00Z","version":1}`
	if err := Import(strings.NewReader(doc), c); err != nil {
		t.Fatalf("import: %v", err)
	}
	if c.MeshSplits.R1 != 0.3 || c.Settings.InspectionSeconds != 12 {
		t.Error("absent top-level keys must retain prior state")
	}
	if len(c.Sessions) != priorSessions {
		t.Error("absent sessions key must retain prior sessions")
	}
}

func TestImportBumpsIDCounters(t *testing.T) {
	c := session.NewCollection()
	doc := `{"sessions":[{"id":40,"type":"normal","name":"imported","createdAt":"2024-01-01T00:00:00Z",
		"results":[{"id":90,"durationMs":12000}]}]}`
	if err := Import(strings.NewReader(doc), c); err != nil {
		t.Fatalf("import: %v", err)
	}
	s := session.Create(c, model.SessionNormal)
	if s.ID <= 40 {
		t.Fatalf("session id %d must exceed every imported id", s.ID)
	}
	r, err := session.Append(c, s.ID, model.Result{DurationMs: 1000})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if r.ID <= 90 {
		t.Fatalf("result id %d must exceed every imported id", r.ID)
	}
}
