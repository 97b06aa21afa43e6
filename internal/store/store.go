// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "github.com/dkranz/cubetimer/internal/errors"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/session"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the solve collection.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewPersistence("open", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewPersistence("open", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, apperrors.NewPersistence("migrate", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER NOT NULL,
			session_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			penalty INTEGER NOT NULL,
			scramble TEXT NOT NULL,
			source INTEGER NOT NULL,
			split_r1 REAL,
			split_r2 REAL,
			phase1_moves INTEGER,
			phase1_rotations INTEGER,
			phase2_rotations INTEGER,
			phase2_pause INTEGER,
			phase3_recognition INTEGER,
			PRIMARY KEY (session_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_session ON results(session_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save writes a full snapshot of the collection in one transaction.
// Callers treat it as fire-and-forget: a failure is reported but never
// rolls back the in-memory mutation that triggered it.
func (s *Store) Save(ctx context.Context, c *model.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewPersistence("save", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, stmt := range []string{`DELETE FROM sessions`, `DELETE FROM results`, `DELETE FROM state`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewPersistence("save", err)
		}
	}

	for pos, sess := range c.Sessions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (id, position, type, name, created_at) VALUES (?, ?, ?, ?, ?)`,
			sess.ID, pos, string(sess.Type), sess.Name, sess.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return apperrors.NewPersistence("save", err)
		}
		for rpos, r := range sess.Results {
			if err = insertResult(ctx, tx, sess.ID, rpos, r); err != nil {
				return apperrors.NewPersistence("save", err)
			}
		}
	}

	state := map[string]string{
		"current_session_id": strconv.FormatInt(c.CurrentID, 10),
		"next_session_id":    strconv.FormatInt(c.NextSessionID, 10),
		"next_result_id":     strconv.FormatInt(c.NextResultID, 10),
		"inspection_enabled": strconv.FormatBool(c.Settings.InspectionEnabled),
		"inspection_seconds": strconv.Itoa(c.Settings.InspectionSeconds),
		"splits_enabled":     strconv.FormatBool(c.Settings.SplitsEnabled),
		"mesh_r1":            strconv.FormatFloat(c.MeshSplits.R1, 'f', -1, 64),
		"mesh_r2":            strconv.FormatFloat(c.MeshSplits.R2, 'f', -1, 64),
	}
	for key, value := range state {
		if _, err = tx.ExecContext(ctx, `INSERT INTO state (key, value) VALUES (?, ?)`, key, value); err != nil {
			return apperrors.NewPersistence("save", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return apperrors.NewPersistence("save", err)
	}
	return nil
}

func insertResult(ctx context.Context, tx *sql.Tx, sessionID int64, pos int, r model.Result) error {
	var r1, r2 sql.NullFloat64
	if r.Splits != nil {
		r1 = sql.NullFloat64{Float64: r.Splits.R1, Valid: true}
		r2 = sql.NullFloat64{Float64: r.Splits.R2, Valid: true}
	}
	var moves, rot1, rot2 sql.NullInt64
	var pause, recog sql.NullBool
	if r.Metrics != nil {
		moves = nullInt(r.Metrics.Phase1Moves)
		rot1 = nullInt(r.Metrics.Phase1Rotations)
		rot2 = nullInt(r.Metrics.Phase2Rotations)
		pause = nullBool(r.Metrics.Phase2Pause)
		recog = nullBool(r.Metrics.Phase3RecognitionDelay)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO results (id, session_id, position, duration_ms, penalty, scramble, source,
			split_r1, split_r2, phase1_moves, phase1_rotations, phase2_rotations, phase2_pause, phase3_recognition)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, sessionID, pos, r.DurationMs, int(r.Penalty), r.Scramble, int(r.Source),
		r1, r2, moves, rot1, rot2, pause, recog,
	)
	return err
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

// Load reconstructs the collection. The load path never fails hard: on any
// structural problem it returns a fresh default collection together with
// the error so the caller can notify and carry on.
func (s *Store) Load(ctx context.Context) (*model.Collection, error) {
	c, err := s.load(ctx)
	if err != nil {
		return session.NewCollection(), apperrors.NewPersistence("load", err)
	}
	session.EnsureSession(c)
	return c, nil
}

func (s *Store) load(ctx context.Context) (*model.Collection, error) {
	c := &model.Collection{
		Settings:      model.DefaultSettings(),
		MeshSplits:    model.DefaultSplitRatios,
		NextSessionID: 1,
		NextResultID:  1,
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, name, created_at FROM sessions ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var sess model.Session
		var typeTag, createdAt string
		if err := rows.Scan(&sess.ID, &typeTag, &sess.Name, &createdAt); err != nil {
			return nil, err
		}
		sess.Type = model.SessionType(typeTag)
		if parsed, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			sess.CreatedAt = parsed
		}
		c.Sessions = append(c.Sessions, &sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sess := range c.Sessions {
		if err := s.loadResults(ctx, sess); err != nil {
			return nil, err
		}
	}

	if err := s.loadState(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) loadResults(ctx context.Context, sess *model.Session) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, duration_ms, penalty, scramble, source,
			split_r1, split_r2, phase1_moves, phase1_rotations, phase2_rotations, phase2_pause, phase3_recognition
		 FROM results WHERE session_id = ? ORDER BY position ASC`, sess.ID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var r model.Result
		var penalty, source int
		var r1, r2 sql.NullFloat64
		var moves, rot1, rot2 sql.NullInt64
		var pause, recog sql.NullBool
		if err := rows.Scan(&r.ID, &r.DurationMs, &penalty, &r.Scramble, &source,
			&r1, &r2, &moves, &rot1, &rot2, &pause, &recog); err != nil {
			return err
		}
		r.Penalty = model.Penalty(penalty)
		r.Source = model.Source(source)
		if r1.Valid && r2.Valid {
			r.Splits = &model.SplitRatios{R1: r1.Float64, R2: r2.Float64}
		}
		if moves.Valid || rot1.Valid || rot2.Valid || pause.Valid || recog.Valid {
			r.Metrics = &model.Metrics{
				Phase1Moves:            intPtr(moves),
				Phase1Rotations:        intPtr(rot1),
				Phase2Rotations:        intPtr(rot2),
				Phase2Pause:            boolPtr(pause),
				Phase3RecognitionDelay: boolPtr(recog),
			}
		}
		sess.Results = append(sess.Results, r)
	}
	return rows.Err()
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func (s *Store) loadState(ctx context.Context, c *model.Collection) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM state`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		// Unknown or malformed keys fall back to defaults silently.
		switch key {
		case "current_session_id":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				c.CurrentID = v
			}
		case "next_session_id":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil && v > 0 {
				c.NextSessionID = v
			}
		case "next_result_id":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil && v > 0 {
				c.NextResultID = v
			}
		case "inspection_enabled":
			if v, err := strconv.ParseBool(value); err == nil {
				c.Settings.InspectionEnabled = v
			}
		case "inspection_seconds":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				c.Settings.InspectionSeconds = v
			}
		case "splits_enabled":
			if v, err := strconv.ParseBool(value); err == nil {
				c.Settings.SplitsEnabled = v
			}
		case "mesh_r1":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.MeshSplits.R1 = v
			}
		case "mesh_r2":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.MeshSplits.R2 = v
			}
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !c.MeshSplits.Valid() {
		c.MeshSplits = model.DefaultSplitRatios
	}
	return nil
}
