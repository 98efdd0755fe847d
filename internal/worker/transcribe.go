package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/pipeline"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/storage"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/youtube"
)

// audioDownloader resolves a remote video's metadata and fetches its
// audio track to disk.
type audioDownloader interface {
	GetVideoInfo(ctx context.Context, url string) (*youtube.VideoInfo, error)
	DownloadAudio(ctx context.Context, url, outputDir string) (string, error)
}

// Runner runs one transcription. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options, onProgress pipeline.ProgressFunc) (*pipeline.Result, error)
}

// TranscribeJobHandler returns the handler for transcribe jobs: it
// runs the pipeline on the job's input file, mirrors progress into
// the job row, and honors cancellation requested through the API.
func TranscribeJobHandler(repo *storage.JobRepository, p Runner) JobHandler {
	return func(ctx context.Context, job *storage.Job) error {
		return runTranscription(ctx, repo, p, job, job.InputPath)
	}
}

// YouTubeJobHandler returns the handler for youtube_download jobs:
// it resolves the video, downloads its audio into downloadDir, then
// transcribes it like a local file. The downloaded file carries the
// video title, which in turn names the subtitle outputs.
func YouTubeJobHandler(repo *storage.JobRepository, dl audioDownloader, downloadDir string, p Runner) JobHandler {
	return func(ctx context.Context, job *storage.Job) error {
		info, err := dl.GetVideoInfo(ctx, job.InputPath)
		if err != nil {
			return fmt.Errorf("failed to resolve video: %w", err)
		}
		log.Printf("Job %s: %q by %s (%.0fs)", job.ID, info.Title, info.Author, info.Duration)

		_ = repo.UpdateProgressWithStep(ctx, job.ID, 0, "downloading audio")
		path, err := dl.DownloadAudio(ctx, job.InputPath, downloadDir)
		if err != nil {
			return fmt.Errorf("failed to download audio: %w", err)
		}
		return runTranscription(ctx, repo, p, job, path)
	}
}

func runTranscription(ctx context.Context, repo *storage.JobRepository, p Runner, job *storage.Job, inputPath string) error {
	jobOpts, err := pipeline.DecodeJobOptions(job.Options)
	if err != nil {
		return err
	}
	opts, err := jobOpts.ToOptions(inputPath)
	if err != nil {
		return err
	}

	// Cancellation requested through the API lands in the job row;
	// checking it from the progress callback stops the run at the
	// next stage boundary.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	result, err := p.Run(runCtx, opts, func(percent int, step string) {
		if uerr := repo.UpdateProgressWithStep(ctx, job.ID, percent, step); uerr != nil {
			log.Printf("Error updating progress for job %s: %v", job.ID, uerr)
		}
		current, gerr := repo.GetByID(ctx, job.ID)
		if gerr == nil && current != nil && current.Status == storage.JobStatusCancelled {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		log.Printf("Job %s warning: %s", job.ID, w)
	}

	paths, err := json.Marshal(result.OutputPaths)
	if err != nil {
		return fmt.Errorf("failed to encode output paths: %w", err)
	}
	return repo.Complete(ctx, job.ID, string(paths))
}
