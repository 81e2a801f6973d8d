// Package store keeps a history of export jobs in SQLite.
//
// A Store owns its database handle: callers open it, pass it to whatever
// records jobs, and close it when done. Nothing here is process-global.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/rshade/resinhook/internal/engine/export"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// ErrJobNotFound is returned by Get for an unknown ID.
var ErrJobNotFound = errors.New("job not found")

// Job is one recorded export.
type Job struct {
	ID            string        `json:"id"`
	Status        export.Status `json:"status"`
	Source        string        `json:"source"`
	Filename      string        `json:"filename"`
	RowsTotal     int           `json:"rowsTotal"`
	RowsProcessed int           `json:"rowsProcessed"`
	Message       string        `json:"message,omitempty"`
	StartedAt     time.Time     `json:"startedAt"`
	FinishedAt    time.Time     `json:"finishedAt"`
}

// Duration returns the job's wall time.
func (j Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// Store is a SQLite-backed job history. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening job store: %w", err)
	}
	// One connection keeps writes serialized and :memory: shared.
	db.SetMaxOpenConns(1)

	if err = migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			filename TEXT NOT NULL DEFAULT '',
			rows_total INTEGER NOT NULL DEFAULT 0,
			rows_processed INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS jobs_started_at ON jobs (started_at DESC);`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("job store migration failed: %w", err)
		}
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts or updates the job described by st.
func (s *Store) Record(ctx context.Context, st export.State, source string) error {
	if st.JobID == "" {
		return errors.New("recording job: empty job id")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO jobs
		(id, status, source, filename, rows_total, rows_processed, message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			rows_total = excluded.rows_total,
			rows_processed = excluded.rows_processed,
			message = excluded.message,
			finished_at = excluded.finished_at`,
		st.JobID, string(st.Status), source, st.Filename,
		st.RowsTotal, st.RowsProcessed, st.Message,
		formatTime(st.StartedAt), formatTime(st.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("recording job %s: %w", st.JobID, err)
	}
	return nil
}

// Get returns one job.
func (s *Store) Get(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx, selectJobs+` WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return j, err
}

// List returns the most recent jobs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, selectJobs+` ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		jobs = append(jobs, j)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Prune deletes all but the newest keep jobs and returns how many went.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id NOT IN (
		SELECT id FROM jobs ORDER BY started_at DESC, id DESC LIMIT ?)`, max(keep, 0))
	if err != nil {
		return 0, fmt.Errorf("pruning jobs: %w", err)
	}
	return res.RowsAffected()
}

// Observer returns an export subscriber that records terminal states.
// Failures are logged, not returned.
func (s *Store) Observer(ctx context.Context, source string, log zerolog.Logger) func(export.State) {
	return func(st export.State) {
		if !st.Status.Terminal() {
			return
		}
		if err := s.Record(context.WithoutCancel(ctx), st, source); err != nil {
			log.Warn().Err(err).Str("job_id", st.JobID).Msg("recording export job")
		}
	}
}

const selectJobs = `SELECT id, status, source, filename, rows_total, rows_processed,
	message, started_at, finished_at FROM jobs`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (Job, error) {
	var (
		j                 Job
		status            string
		started, finished string
	)
	if err := sc.Scan(&j.ID, &status, &j.Source, &j.Filename, &j.RowsTotal,
		&j.RowsProcessed, &j.Message, &started, &finished); err != nil {
		return Job{}, err
	}
	j.Status = export.Status(status)
	j.StartedAt = parseTime(started)
	j.FinishedAt = parseTime(finished)
	return j, nil
}

// timeLayout is fixed width so started_at orders correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
