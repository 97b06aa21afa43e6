// Package session implements the session collection and its mutations.
//
// All operations are synchronous and total: either the full mutation applies
// or the collection is left unchanged. Statistics are never cached here;
// callers recompute them from the result sequence after any mutation.
package session

import (
	"fmt"
	"time"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
)

// DefaultSessionName is used for auto-created sessions.
const DefaultSessionName = "Session 1"

// NewCollection builds an empty collection with defaults and one selected
// default session.
func NewCollection() *model.Collection {
	c := &model.Collection{
		Settings:      model.DefaultSettings(),
		MeshSplits:    model.DefaultSplitRatios,
		NextSessionID: 1,
		NextResultID:  1,
	}
	EnsureSession(c)
	return c
}

// EnsureSession guarantees the collection has at least one session and a
// valid current selection. Called after load, delete, and import.
func EnsureSession(c *model.Collection) {
	if len(c.Sessions) == 0 {
		s := newSession(c, model.SessionNormal, DefaultSessionName)
		c.Sessions = append(c.Sessions, s)
		c.CurrentID = s.ID
		return
	}
	if _, err := Find(c, c.CurrentID); err != nil {
		c.CurrentID = c.Sessions[0].ID
	}
}

func newSession(c *model.Collection, typeTag model.SessionType, name string) *model.Session {
	id := c.NextSessionID
	c.NextSessionID++
	if name == "" {
		name = fmt.Sprintf("Session %d", id)
	}
	return &model.Session{
		ID:        id,
		Type:      typeTag,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// Create appends a new session of the given type and makes it current.
func Create(c *model.Collection, typeTag model.SessionType) *model.Session {
	s := newSession(c, typeTag, "")
	c.Sessions = append(c.Sessions, s)
	c.CurrentID = s.ID
	return s
}

// Find returns the session with the given id.
func Find(c *model.Collection, id int64) (*model.Session, error) {
	for _, s := range c.Sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.NewNotFound("session", id)
}

// Current returns the currently selected session.
func Current(c *model.Collection) *model.Session {
	EnsureSession(c)
	s, _ := Find(c, c.CurrentID)
	return s
}

// SetCurrent selects the session with the given id.
func SetCurrent(c *model.Collection, id int64) error {
	if _, err := Find(c, id); err != nil {
		return err
	}
	c.CurrentID = id
	return nil
}

// Rename changes a session's display name.
func Rename(c *model.Collection, id int64, name string) error {
	s, err := Find(c, id)
	if err != nil {
		return err
	}
	if name == "" {
		return apperrors.NewInvalidInput("session name must not be empty")
	}
	s.Name = name
	return nil
}

// Delete removes a session. Deleting the current session selects the first
// remaining one; deleting the last session auto-creates a fresh default.
func Delete(c *model.Collection, id int64) error {
	idx := -1
	for i, s := range c.Sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.NewNotFound("session", id)
	}
	c.Sessions = append(c.Sessions[:idx], c.Sessions[idx+1:]...)
	if c.CurrentID == id {
		if len(c.Sessions) > 0 {
			c.CurrentID = c.Sessions[0].ID
		} else {
			EnsureSession(c)
		}
	}
	return nil
}

// Append adds a finished result to a session, assigning the next result id.
func Append(c *model.Collection, sessionID int64, r model.Result) (model.Result, error) {
	s, err := Find(c, sessionID)
	if err != nil {
		return model.Result{}, err
	}
	r.ID = c.NextResultID
	c.NextResultID++
	s.Results = append(s.Results, r)
	return r, nil
}

// RemoveResult deletes one result from a session by id.
func RemoveResult(c *model.Collection, sessionID, resultID int64) error {
	s, err := Find(c, sessionID)
	if err != nil {
		return err
	}
	for i, r := range s.Results {
		if r.ID == resultID {
			s.Results = append(s.Results[:i], s.Results[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("result", resultID)
}

// RemoveLast drops the most recent result from a session.
func RemoveLast(c *model.Collection, sessionID int64) (model.Result, error) {
	s, err := Find(c, sessionID)
	if err != nil {
		return model.Result{}, err
	}
	if len(s.Results) == 0 {
		return model.Result{}, apperrors.NewNotFound("result", "last")
	}
	last := s.Results[len(s.Results)-1]
	s.Results = s.Results[:len(s.Results)-1]
	return last, nil
}

// ClearAll removes every result from a session but keeps the session.
func ClearAll(c *model.Collection, sessionID int64) error {
	s, err := Find(c, sessionID)
	if err != nil {
		return err
	}
	s.Results = nil
	return nil
}

// SetPenalty applies a penalty to a result. A penalty may be set only once;
// a second attempt is rejected with the prior state untouched.
func SetPenalty(c *model.Collection, sessionID, resultID int64, p model.Penalty) error {
	s, err := Find(c, sessionID)
	if err != nil {
		return err
	}
	for i := range s.Results {
		if s.Results[i].ID == resultID {
			if s.Results[i].Penalty != model.PenaltyNone {
				return apperrors.NewInvalidInput("penalty already set")
			}
			if p == model.PenaltyNone {
				return apperrors.NewInvalidInput("cannot clear a penalty")
			}
			s.Results[i].Penalty = p
			return nil
		}
	}
	return apperrors.NewNotFound("result", resultID)
}
