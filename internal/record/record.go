// Package record provides durable storage for timing qualification runs.
//
// The voscheck tool writes one run row per cycle invocation and one sample
// row per loop iteration, so field engineers can compare timing behavior
// across hosts and kernel configurations. Uses SQLite with WAL mode.
package record

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store persists timing runs and their per-iteration samples.
type Store struct {
	db *sql.DB
}

// Run describes one cycle run of the qualification tool.
type Run struct {
	ID         int64
	Name       string
	IntervalUS int64
	Iterations int
	StartedAt  time.Time
}

// Sample is one loop iteration's measurement.
type Sample struct {
	Iteration int
	ElapsedUS int64
	WaitUS    int64
	Overrun   bool
}

// Summary aggregates the samples of one run.
type Summary struct {
	Count     int
	Overruns  int
	MinUS     int64
	MaxUS     int64
	MeanUS    float64
}

// Open creates or opens the sample database at the given path.
// Applies required pragmas and the schema; idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sample database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to sample database: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection to
	// avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a run row and returns its ID for subsequent samples.
func (s *Store) BeginRun(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (name, interval_us, iterations, started_at)
		VALUES (?, ?, ?, ?)
	`, r.Name, r.IntervalUS, r.Iterations, r.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// WriteSample inserts one iteration sample for the given run.
func (s *Store) WriteSample(ctx context.Context, runID int64, sample Sample) error {
	overrun := 0
	if sample.Overrun {
		overrun = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO samples (run_id, iteration, elapsed_us, wait_us, overrun)
		VALUES (?, ?, ?, ?, ?)
	`, runID, sample.Iteration, sample.ElapsedUS, sample.WaitUS, overrun)
	if err != nil {
		return fmt.Errorf("write sample %d: %w", sample.Iteration, err)
	}
	return nil
}

// ReadSamples returns the samples of a run in iteration order.
func (s *Store) ReadSamples(ctx context.Context, runID int64) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT iteration, elapsed_us, wait_us, overrun
		FROM samples WHERE run_id = ? ORDER BY iteration
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var sm Sample
		var overrun int
		if err := rows.Scan(&sm.Iteration, &sm.ElapsedUS, &sm.WaitUS, &overrun); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sm.Overrun = overrun != 0
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return out, nil
}

// Summarize aggregates a run's samples.
func (s *Store) Summarize(ctx context.Context, runID int64) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(overrun), 0),
		       COALESCE(MIN(elapsed_us), 0),
		       COALESCE(MAX(elapsed_us), 0),
		       COALESCE(AVG(elapsed_us), 0)
		FROM samples WHERE run_id = ?
	`, runID).Scan(&sum.Count, &sum.Overruns, &sum.MinUS, &sum.MaxUS, &sum.MeanUS)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize run %d: %w", runID, err)
	}
	return sum, nil
}
