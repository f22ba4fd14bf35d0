// Package storage persists batch result records and captured frames in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/capture"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// BatchInfo describes one stored batch.
type BatchInfo struct {
	ID        string
	Runs      int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dbPath != "" && dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Each pooled connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			grid_size INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL REFERENCES batches(id),
			position INTEGER NOT NULL,
			run_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			agent_count INTEGER NOT NULL,
			ignition_x INTEGER NOT NULL,
			ignition_y INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			ignited INTEGER NOT NULL,
			extinguished INTEGER NOT NULL,
			burned_out INTEGER NOT NULL,
			efficiency REAL NOT NULL,
			avg_steps_to_extinguish REAL NOT NULL,
			percent_extinguished REAL NOT NULL,
			steps INTEGER NOT NULL,
			agent_moves INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			error_kind TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_results_batch ON results(batch_id, position);
		CREATE INDEX IF NOT EXISTS idx_results_agents ON results(agent_count);

		CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			size INTEGER NOT NULL,
			current BLOB NOT NULL,
			new_sources BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, step);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBatch stores results under batchID in one transaction, keeping their order.
func (s *Store) SaveBatch(ctx context.Context, batchID string, gridSize int, results []fire.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO batches (id, grid_size) VALUES (?, ?)", batchID, gridSize,
	); err != nil {
		return fmt.Errorf("storage: cannot save batch %s: %w", batchID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (
			batch_id, position, run_id, seed, agent_count, ignition_x, ignition_y,
			outcome, ignited, extinguished, burned_out, efficiency,
			avg_steps_to_extinguish, percent_extinguished, steps, agent_moves,
			error, error_kind
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		if _, err := stmt.ExecContext(ctx,
			batchID, i, r.RunID, r.Seed, r.AgentCount, r.Ignition.X, r.Ignition.Y,
			string(r.Outcome), r.Ignited, r.Extinguished, r.BurnedOut, r.Efficiency,
			r.AvgStepsToExtinguish, r.PercentExtinguished, r.Steps, r.AgentMoves,
			r.Error, r.ErrorKind,
		); err != nil {
			return fmt.Errorf("storage: cannot save result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit batch %s: %w", batchID, err)
	}
	return nil
}

// Results returns the results of a batch in their original order.
func (s *Store) Results(ctx context.Context, batchID string) ([]fire.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seed, agent_count, ignition_x, ignition_y, outcome,
			ignited, extinguished, burned_out, efficiency, avg_steps_to_extinguish,
			percent_extinguished, steps, agent_moves, error, error_kind
		FROM results
		WHERE batch_id = ?
		ORDER BY position`, batchID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var out []fire.Result
	for rows.Next() {
		var (
			r       fire.Result
			x, y    int
			outcome string
		)
		if err := rows.Scan(
			&r.RunID, &r.Seed, &r.AgentCount, &x, &y, &outcome,
			&r.Ignited, &r.Extinguished, &r.BurnedOut, &r.Efficiency, &r.AvgStepsToExtinguish,
			&r.PercentExtinguished, &r.Steps, &r.AgentMoves, &r.Error, &r.ErrorKind,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan result: %w", err)
		}
		r.Ignition = core.NewCoordinate(x, y)
		r.Outcome = fire.Outcome(outcome)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: error iterating results: %w", err)
	}
	return out, nil
}

// Batches lists stored batches, newest first.
func (s *Store) Batches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, COUNT(r.id), b.created_at
		FROM batches b LEFT JOIN results r ON r.batch_id = b.id
		GROUP BY b.id
		ORDER BY b.created_at DESC, b.id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query batches: %w", err)
	}
	defer rows.Close()

	var out []BatchInfo
	for rows.Next() {
		var b BatchInfo
		var createdAt any
		if err := rows.Scan(&b.ID, &b.Runs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan batch: %w", err)
		}

		// The driver may hand back either time.Time or the raw text.
		switch v := createdAt.(type) {
		case time.Time:
			b.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				b.CreatedAt = parsed
			}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: error iterating batches: %w", err)
	}
	return out, nil
}

// SaveFrames stores captured frames in one transaction.
func (s *Store) SaveFrames(ctx context.Context, frames []capture.Frame) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO frames (run_id, step, size, current, new_sources) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range frames {
		if _, err := stmt.ExecContext(ctx, f.RunID, f.Step, f.Size, f.Current, f.NewSources); err != nil {
			return fmt.Errorf("storage: cannot save frame %s/%d: %w", f.RunID, f.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit frames: %w", err)
	}
	return nil
}

// Frames returns the stored frames of one run in step order.
func (s *Store) Frames(ctx context.Context, runID string) ([]capture.Frame, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, step, size, current, new_sources FROM frames WHERE run_id = ? ORDER BY step", runID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var out []capture.Frame
	for rows.Next() {
		var f capture.Frame
		if err := rows.Scan(&f.RunID, &f.Step, &f.Size, &f.Current, &f.NewSources); err != nil {
			return nil, fmt.Errorf("storage: cannot scan frame: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: error iterating frames: %w", err)
	}
	return out, nil
}
