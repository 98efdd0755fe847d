// Package worker polls the job queue and runs registered handlers.
package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/pipeline"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/storage"
)

// JobHandler processes one job. A successful handler is responsible
// for marking the job completed with its outputs; the worker owns
// the failure transitions.
type JobHandler func(ctx context.Context, job *storage.Job) error

// Worker processes jobs from the queue, one at a time. Single-flight
// is deliberate: a transcription job holds a loaded model, and two
// concurrent jobs would double peak accelerator memory.
type Worker struct {
	jobRepo  *storage.JobRepository
	handlers map[string]JobHandler
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
}

const maxRetries = 3

// NewWorker creates a new worker.
func NewWorker(jobRepo *storage.JobRepository) *Worker {
	return &Worker{
		jobRepo:  jobRepo,
		handlers: make(map[string]JobHandler),
		interval: 1 * time.Second,
		stop:     make(chan struct{}),
	}
}

// RegisterHandler registers a handler for a job type.
func (w *Worker) RegisterHandler(jobType string, handler JobHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = handler
}

// SetInterval sets the polling interval.
func (w *Worker) SetInterval(interval time.Duration) {
	w.interval = interval
}

// Start begins processing jobs.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
	log.Println("Worker started")
}

// Stop gracefully stops the worker, waiting for an in-flight job.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
	log.Println("Worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.processNextJob(ctx)
		}
	}
}

func (w *Worker) processNextJob(ctx context.Context) {
	job, err := w.jobRepo.GetNextQueued(ctx)
	if err != nil {
		log.Printf("Error getting next job: %v", err)
		return
	}
	if job == nil {
		return
	}

	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()

	if !ok {
		log.Printf("No handler for job type: %s", job.Type)
		_ = w.jobRepo.Fail(ctx, job.ID, "no handler registered for job type: "+job.Type)
		return
	}

	if err := w.jobRepo.Start(ctx, job.ID); err != nil {
		log.Printf("Error starting job %s: %v", job.ID, err)
		return
	}

	log.Printf("Processing job %s (type: %s)", job.ID, job.Type)

	if err := handler(ctx, job); err != nil {
		log.Printf("Job %s failed: %v", job.ID, err)
		w.handleJobFailure(ctx, job, err)
		return
	}

	log.Printf("Job %s completed", job.ID)
}

func (w *Worker) handleJobFailure(ctx context.Context, job *storage.Job, jobErr error) {
	// A cancelled run is terminal, not retryable.
	var perr *pipeline.Error
	if errors.As(jobErr, &perr) && perr.Kind == pipeline.KindCancelled {
		if err := w.jobRepo.Cancel(ctx, job.ID); err != nil {
			log.Printf("Error cancelling job %s: %v", job.ID, err)
		}
		return
	}

	if job.RetryCount < maxRetries && retryable(perr) {
		if err := w.jobRepo.Retry(ctx, job.ID); err != nil {
			log.Printf("Error retrying job %s: %v", job.ID, err)
		} else {
			log.Printf("Job %s queued for retry (attempt %d/%d)", job.ID, job.RetryCount+1, maxRetries)
		}
		return
	}

	if err := w.jobRepo.Fail(ctx, job.ID, jobErr.Error()); err != nil {
		log.Printf("Error failing job %s: %v", job.ID, err)
	}
}

// retryable reports whether a failure class can plausibly succeed on
// a later attempt. Bad input never can.
func retryable(perr *pipeline.Error) bool {
	if perr == nil {
		return true
	}
	switch perr.Kind {
	case pipeline.KindUnsupportedFormat, pipeline.KindDecode, pipeline.KindInvalidSegment:
		return false
	default:
		return true
	}
}

// SubmitJob creates a new job and adds it to the queue.
func (w *Worker) SubmitJob(ctx context.Context, jobType, inputPath, options string, priority int) (*storage.Job, error) {
	job := &storage.Job{
		Type:      jobType,
		InputPath: inputPath,
		Options:   options,
		Priority:  priority,
	}
	if err := w.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	log.Printf("Job %s submitted (type: %s, priority: %d)", job.ID, jobType, priority)
	return job, nil
}
