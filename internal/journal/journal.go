package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS export_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project TEXT NOT NULL,
    status TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    output_duration REAL NOT NULL DEFAULT 0,
    unit_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS export_jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES export_runs(id) ON DELETE CASCADE,
    unit_index INTEGER NOT NULL,
    kind TEXT NOT NULL,
    label TEXT NOT NULL,
    video_id TEXT NOT NULL,
    source_start REAL NOT NULL,
    source_end REAL NOT NULL,
    speed REAL NOT NULL,
    status TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    elapsed_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_export_jobs_run ON export_jobs(run_id, unit_index);
`

// Run statuses recorded in the journal.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Store persists export run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run summarizes one export invocation.
type Run struct {
	ID             int64
	Project        string
	Status         string
	StartedAt      time.Time
	FinishedAt     *time.Time
	OutputDuration float64
	UnitCount      int
	FailedCount    int
}

// Job records the outcome of a single unit's extraction job.
type Job struct {
	RunID       int64
	UnitIndex   int
	Kind        string
	Label       string
	VideoID     string
	SourceStart float64
	SourceEnd   float64
	Speed       float64
	Status      string
	Detail      string
	ElapsedMS   int64
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a new running export and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, project string, unitCount int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO export_runs (project, status, started_at, unit_count) VALUES (?, ?, ?, ?)`,
		project, StatusRunning, time.Now().UTC().Format(time.RFC3339Nano), unitCount,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FinishRun records the final status of a run.
func (s *Store) FinishRun(ctx context.Context, id int64, status string, outputDuration float64, failedCount int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE export_runs SET status = ?, finished_at = ?, output_duration = ?, failed_count = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), outputDuration, failedCount, id,
	)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}
	return nil
}

// RecordJob appends one unit outcome to a run.
func (s *Store) RecordJob(ctx context.Context, job Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO export_jobs (run_id, unit_index, kind, label, video_id, source_start, source_end, speed, status, detail, elapsed_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.RunID, job.UnitIndex, job.Kind, job.Label, job.VideoID,
		job.SourceStart, job.SourceEnd, job.Speed, job.Status, job.Detail, job.ElapsedMS,
	)
	if err != nil {
		return fmt.Errorf("insert job for run %d: %w", job.RunID, err)
	}
	return nil
}

// RecentRuns lists runs newest first, up to limit.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, status, started_at, finished_at, output_duration, unit_count, failed_count
         FROM export_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &run.Project, &run.Status, &started, &finished, &run.OutputDuration, &run.UnitCount, &run.FailedCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			if parsed, parseErr := time.Parse(time.RFC3339Nano, finished.String); parseErr == nil {
				run.FinishedAt = &parsed
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunJobs lists the unit outcomes of one run in plan order.
func (s *Store) RunJobs(ctx context.Context, runID int64) ([]Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, unit_index, kind, label, video_id, source_start, source_end, speed, status, detail, elapsed_ms
         FROM export_jobs WHERE run_id = ? ORDER BY unit_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		if err := rows.Scan(&job.RunID, &job.UnitIndex, &job.Kind, &job.Label, &job.VideoID, &job.SourceStart, &job.SourceEnd, &job.Speed, &job.Status, &job.Detail, &job.ElapsedMS); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
