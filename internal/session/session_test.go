package session

import (
	"testing"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
)

func TestNewCollectionAutoSession(t *testing.T) {
	c := NewCollection()
	if len(c.Sessions) != 1 {
		t.Fatalf("expected 1 auto-created session, got %d", len(c.Sessions))
	}
	if c.CurrentID != c.Sessions[0].ID {
		t.Fatalf("current id %d does not match session id %d", c.CurrentID, c.Sessions[0].ID)
	}
	if c.Sessions[0].Name != DefaultSessionName {
		t.Fatalf("unexpected default name %q", c.Sessions[0].Name)
	}
}

func TestCreateMakesCurrent(t *testing.T) {
	c := NewCollection()
	s := Create(c, model.SessionOneHanded)
	if c.CurrentID != s.ID {
		t.Fatalf("new session not selected")
	}
	if s.Type != model.SessionOneHanded {
		t.Fatalf("type = %v, want one-handed", s.Type)
	}
	if s.ID == c.Sessions[0].ID {
		t.Fatalf("session ids must be unique")
	}
}

func TestDeleteReselectsFirstRemaining(t *testing.T) {
	c := NewCollection()
	first := c.Sessions[0]
	second := Create(c, model.SessionNormal)

	if err := Delete(c, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if c.CurrentID != first.ID {
		t.Fatalf("expected first session reselected, current = %d", c.CurrentID)
	}
}

func TestDeleteLastRecreatesDefault(t *testing.T) {
	c := NewCollection()
	only := c.Sessions[0]
	if err := Delete(c, only.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(c.Sessions) != 1 {
		t.Fatalf("expected a recreated default session, got %d sessions", len(c.Sessions))
	}
	if c.Sessions[0].ID == only.ID {
		t.Fatalf("recreated session must get a fresh id")
	}
	if c.CurrentID != c.Sessions[0].ID {
		t.Fatalf("recreated session must be current")
	}
}

func TestDeleteUnknown(t *testing.T) {
	c := NewCollection()
	err := Delete(c, 404)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if len(c.Sessions) != 1 {
		t.Fatalf("failed delete must not mutate the collection")
	}
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	c := NewCollection()
	cur := Current(c)
	var prev int64
	for i := 0; i < 3; i++ {
		r, err := Append(c, cur.ID, model.Result{DurationMs: int64(10000 + i)})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if r.ID <= prev {
			t.Fatalf("result ids must be monotonically increasing: %d after %d", r.ID, prev)
		}
		prev = r.ID
	}
	if len(cur.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(cur.Results))
	}
}

func TestAppendUnknownSession(t *testing.T) {
	c := NewCollection()
	if _, err := Append(c, 999, model.Result{DurationMs: 1}); !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRemoveResultAndLast(t *testing.T) {
	c := NewCollection()
	cur := Current(c)
	r1, _ := Append(c, cur.ID, model.Result{DurationMs: 1000})
	r2, _ := Append(c, cur.ID, model.Result{DurationMs: 2000})

	if err := RemoveResult(c, cur.ID, r1.ID); err != nil {
		t.Fatalf("remove result: %v", err)
	}
	if len(cur.Results) != 1 || cur.Results[0].ID != r2.ID {
		t.Fatalf("unexpected results after remove: %+v", cur.Results)
	}

	last, err := RemoveLast(c, cur.ID)
	if err != nil {
		t.Fatalf("remove last: %v", err)
	}
	if last.ID != r2.ID {
		t.Fatalf("expected last result %d, got %d", r2.ID, last.ID)
	}
	if _, err := RemoveLast(c, cur.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("remove last on empty session should be NotFound, got %v", err)
	}
}

func TestClearAllKeepsSession(t *testing.T) {
	c := NewCollection()
	cur := Current(c)
	_, _ = Append(c, cur.ID, model.Result{DurationMs: 1000})
	if err := ClearAll(c, cur.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cur.Results) != 0 {
		t.Fatalf("expected no results after clear")
	}
	if _, err := Find(c, cur.ID); err != nil {
		t.Fatalf("session must survive clear: %v", err)
	}
}

func TestSetPenaltyOnce(t *testing.T) {
	c := NewCollection()
	cur := Current(c)
	r, _ := Append(c, cur.ID, model.Result{DurationMs: 9000})

	if err := SetPenalty(c, cur.ID, r.ID, model.PenaltyPlusTwo); err != nil {
		t.Fatalf("set penalty: %v", err)
	}
	err := SetPenalty(c, cur.ID, r.ID, model.PenaltyVoid)
	if !apperrors.IsInvalidInput(err) {
		t.Fatalf("second penalty set should be rejected, got %v", err)
	}
	if cur.Results[0].Penalty != model.PenaltyPlusTwo {
		t.Fatalf("rejected set must not alter the stored penalty")
	}
}

func TestRename(t *testing.T) {
	c := NewCollection()
	cur := Current(c)
	if err := Rename(c, cur.ID, "PB hunting"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if cur.Name != "PB hunting" {
		t.Fatalf("name = %q", cur.Name)
	}
	if err := Rename(c, cur.ID, ""); !apperrors.IsInvalidInput(err) {
		t.Fatalf("empty rename should be rejected, got %v", err)
	}
}
