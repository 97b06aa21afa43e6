// Package store handles SQLite persistence.
package store

import (
	"encoding/json"
	"io"
	"os"
	"time"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/session"
)

// ExportVersion marks the export document format.
const ExportVersion = 1

type exportDoc struct {
	Sessions   []sessionDoc `json:"sessions,omitempty"`
	Settings   *settingsDoc `json:"settings,omitempty"`
	MeshSplits []float64    `json:"meshSplits,omitempty"`
	ExportedAt time.Time    `json:"exportedAt"`
	Version    int          `json:"version"`
}

type sessionDoc struct {
	ID        int64       `json:"id"`
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"createdAt"`
	Results   []resultDoc `json:"results"`
}

type resultDoc struct {
	ID         int64      `json:"id"`
	DurationMs int64      `json:"durationMs"`
	Penalty    string     `json:"penalty,omitempty"`
	Scramble   string     `json:"scramble,omitempty"`
	Source     string     `json:"source,omitempty"`
	Splits     []float64  `json:"splits,omitempty"`
	Metrics    *metricDoc `json:"metrics,omitempty"`
}

type metricDoc struct {
	Phase1Moves            *int  `json:"phase1Moves,omitempty"`
	Phase1Rotations        *int  `json:"phase1Rotations,omitempty"`
	Phase2Rotations        *int  `json:"phase2Rotations,omitempty"`
	Phase2Pause            *bool `json:"phase2Pause,omitempty"`
	Phase3RecognitionDelay *bool `json:"phase3RecognitionDelay,omitempty"`
}

type settingsDoc struct {
	InspectionEnabled *bool `json:"inspectionEnabled,omitempty"`
	InspectionSeconds *int  `json:"inspectionSeconds,omitempty"`
	SplitsEnabled     *bool `json:"splitsEnabled,omitempty"`
}

// Export writes the collection as a JSON document.
func Export(w io.Writer, c *model.Collection) error {
	doc := exportDoc{
		MeshSplits: []float64{c.MeshSplits.R1, c.MeshSplits.R2},
		ExportedAt: time.Now().UTC(),
		Version:    ExportVersion,
	}
	doc.Settings = &settingsDoc{
		InspectionEnabled: &c.Settings.InspectionEnabled,
		InspectionSeconds: &c.Settings.InspectionSeconds,
		SplitsEnabled:     &c.Settings.SplitsEnabled,
	}
	for _, s := range c.Sessions {
		sd := sessionDoc{
			ID:        s.ID,
			Type:      string(s.Type),
			Name:      s.Name,
			CreatedAt: s.CreatedAt,
			Results:   make([]resultDoc, 0, len(s.Results)),
		}
		for _, r := range s.Results {
			rd := resultDoc{
				ID:         r.ID,
				DurationMs: r.DurationMs,
				Penalty:    penaltyTag(r.Penalty),
				Scramble:   r.Scramble,
				Source:     r.Source.String(),
			}
			if r.Splits != nil {
				rd.Splits = []float64{r.Splits.R1, r.Splits.R2}
			}
			if r.Metrics != nil {
				rd.Metrics = &metricDoc{
					Phase1Moves:            r.Metrics.Phase1Moves,
					Phase1Rotations:        r.Metrics.Phase1Rotations,
					Phase2Rotations:        r.Metrics.Phase2Rotations,
					Phase2Pause:            r.Metrics.Phase2Pause,
					Phase3RecognitionDelay: r.Metrics.Phase3RecognitionDelay,
				}
			}
			sd.Results = append(sd.Results, rd)
		}
		doc.Sessions = append(doc.Sessions, sd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return apperrors.NewPersistence("export", err)
	}
	return nil
}

// ExportFile exports the collection to a file path.
func ExportFile(path string, c *model.Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewPersistence("export", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort file close.
			_ = cerr
		}
	}()
	return Export(f, c)
}

// Import merges an export document into the collection. Missing top-level
// keys leave the prior state untouched; a malformed document aborts with
// InvalidInput and no mutation. On success the current session resets to
// the first imported session.
func Import(r io.Reader, c *model.Collection) error {
	var doc exportDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return apperrors.NewInvalidInput("malformed import document")
	}

	if doc.Settings != nil {
		if doc.Settings.InspectionEnabled != nil {
			c.Settings.InspectionEnabled = *doc.Settings.InspectionEnabled
		}
		if doc.Settings.InspectionSeconds != nil && *doc.Settings.InspectionSeconds > 0 {
			c.Settings.InspectionSeconds = *doc.Settings.InspectionSeconds
		}
		if doc.Settings.SplitsEnabled != nil {
			c.Settings.SplitsEnabled = *doc.Settings.SplitsEnabled
		}
	}
	if len(doc.MeshSplits) == 2 {
		ratios := model.SplitRatios{R1: doc.MeshSplits[0], R2: doc.MeshSplits[1]}
		if ratios.Valid() {
			c.MeshSplits = ratios
		}
	}
	if doc.Sessions != nil {
		sessions := make([]*model.Session, 0, len(doc.Sessions))
		for _, sd := range doc.Sessions {
			sess := &model.Session{
				ID:        sd.ID,
				Type:      model.SessionType(sd.Type),
				Name:      sd.Name,
				CreatedAt: sd.CreatedAt,
			}
			if sess.ID <= 0 {
				sess.ID = c.NextSessionID
				c.NextSessionID++
			}
			for _, rd := range sd.Results {
				res := model.Result{
					ID:         rd.ID,
					DurationMs: rd.DurationMs,
					Penalty:    parsePenaltyTag(rd.Penalty),
					Scramble:   rd.Scramble,
				}
				if rd.Source == model.SourceTyped.String() {
					res.Source = model.SourceTyped
				}
				if len(rd.Splits) == 2 {
					res.Splits = &model.SplitRatios{R1: rd.Splits[0], R2: rd.Splits[1]}
				}
				if rd.Metrics != nil {
					res.Metrics = &model.Metrics{
						Phase1Moves:            rd.Metrics.Phase1Moves,
						Phase1Rotations:        rd.Metrics.Phase1Rotations,
						Phase2Rotations:        rd.Metrics.Phase2Rotations,
						Phase2Pause:            rd.Metrics.Phase2Pause,
						Phase3RecognitionDelay: rd.Metrics.Phase3RecognitionDelay,
					}
				}
				if res.ID <= 0 {
					res.ID = c.NextResultID
					c.NextResultID++
				}
				sess.Results = append(sess.Results, res)
			}
			sessions = append(sessions, sess)
		}
		c.Sessions = sessions
		if len(sessions) > 0 {
			c.CurrentID = sessions[0].ID
		}
		bumpCounters(c)
	}
	session.EnsureSession(c)
	return nil
}

// ImportFile imports an export document from a file path.
func ImportFile(path string, c *model.Collection) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewInvalidInput("cannot open import file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort file close.
			_ = cerr
		}
	}()
	return Import(f, c)
}

// bumpCounters keeps id assignment monotonic past every imported id.
func bumpCounters(c *model.Collection) {
	for _, s := range c.Sessions {
		if s.ID >= c.NextSessionID {
			c.NextSessionID = s.ID + 1
		}
		for _, r := range s.Results {
			if r.ID >= c.NextResultID {
				c.NextResultID = r.ID + 1
			}
		}
	}
}

func penaltyTag(p model.Penalty) string {
	switch p {
	case model.PenaltyPlusTwo:
		return "+2"
	case model.PenaltyVoid:
		return "dnf"
	default:
		return ""
	}
}

func parsePenaltyTag(tag string) model.Penalty {
	switch tag {
	case "+2":
		return model.PenaltyPlusTwo
	case "dnf":
		return model.PenaltyVoid
	default:
		return model.PenaltyNone
	}
}
