package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Job is one queued transcription task. Options carries the JSON
// encoding of the caller's pipeline options; OutputPaths the JSON
// list of written subtitle files.
type Job struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	InputPath   string     `json:"input_path"`
	Options     string     `json:"options"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"current_step"`
	OutputPaths string     `json:"output_paths"`
	RetryCount  int        `json:"retry_count"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Job types.
const (
	JobTypeTranscribe      = "transcribe"
	JobTypeYouTubeDownload = "youtube_download"
)

// Job statuses.
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// Job priorities.
const (
	JobPriorityImmediate = 0
	JobPriorityNormal    = 5
	JobPriorityBatch     = 9
)

const jobColumns = `id, type, input_path, options, status, priority, progress,
	current_step, output_paths, retry_count, error, created_at, started_at, completed_at`

// JobRepository is the data access layer for jobs.
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job, filling in ID, status and priority
// defaults.
func (r *JobRepository) Create(ctx context.Context, job *Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = JobStatusQueued
	}
	if job.Priority == 0 && job.Status == JobStatusQueued {
		job.Priority = JobPriorityNormal
	}
	if job.Options == "" {
		job.Options = "{}"
	}
	if job.OutputPaths == "" {
		job.OutputPaths = "[]"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO processing_jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Type, job.InputPath, job.Options, job.Status, job.Priority,
		job.Progress, job.CurrentStep, job.OutputPaths, job.RetryCount, job.Error,
		job.CreatedAt, job.StartedAt, job.CompletedAt,
	)
	return err
}

func scanJob(row interface{ Scan(...any) error }) (*Job, error) {
	var job Job
	err := row.Scan(
		&job.ID, &job.Type, &job.InputPath, &job.Options, &job.Status,
		&job.Priority, &job.Progress, &job.CurrentStep, &job.OutputPaths,
		&job.RetryCount, &job.Error, &job.CreatedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetByID returns the job with the given id, or nil when absent.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM processing_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// GetNextQueued returns the next queued job by priority, or nil when
// the queue is empty.
func (r *JobRepository) GetNextQueued(ctx context.Context) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM processing_jobs
		WHERE status = ?
		ORDER BY priority ASC, created_at ASC
		LIMIT 1`, JobStatusQueued)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// Start marks the job as running.
func (r *JobRepository) Start(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE processing_jobs SET status = ?, started_at = ? WHERE id = ?`,
		JobStatusRunning, now, id)
	return err
}

// UpdateProgressWithStep updates the job's progress and step label.
func (r *JobRepository) UpdateProgressWithStep(ctx context.Context, id string, progress int, step string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE processing_jobs SET progress = ?, current_step = ? WHERE id = ?`,
		progress, step, id)
	return err
}

// Complete marks the job as completed and records its output files.
func (r *JobRepository) Complete(ctx context.Context, id string, outputPaths string) error {
	now := time.Now()
	if outputPaths == "" {
		outputPaths = "[]"
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE processing_jobs
		SET status = ?, progress = 100, output_paths = ?, completed_at = ?
		WHERE id = ?`,
		JobStatusCompleted, outputPaths, now, id)
	return err
}

// Fail marks the job as failed with an error message.
func (r *JobRepository) Fail(ctx context.Context, id string, errorMsg string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE processing_jobs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		JobStatusFailed, errorMsg, now, id)
	return err
}

// Cancel marks the job as cancelled.
func (r *JobRepository) Cancel(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE processing_jobs SET status = ?, completed_at = ? WHERE id = ?`,
		JobStatusCancelled, now, id)
	return err
}

// Retry puts the job back in the queue and bumps its retry count.
func (r *JobRepository) Retry(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE processing_jobs
		SET status = ?, retry_count = retry_count + 1, started_at = NULL
		WHERE id = ?`,
		JobStatusQueued, id)
	return err
}

// ListRecent returns the most recently created jobs.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]Job, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM processing_jobs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Delete removes the job.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM processing_jobs WHERE id = ?`, id)
	return err
}

// CleanupCompleted deletes completed jobs older than the given age.
func (r *JobRepository) CleanupCompleted(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM processing_jobs
		WHERE status = ? AND completed_at < ?`,
		JobStatusCompleted, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
