// Package handlers exposes the JSON API: media upload, YouTube
// submission, and job tracking for the transcription queue.
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/media"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/pipeline"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/storage"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/style"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/worker"
)

// TranscribeHandler accepts transcription requests and queues them.
type TranscribeHandler struct {
	worker    *worker.Worker
	uploadDir string
	outputDir string
}

// NewTranscribeHandler creates a TranscribeHandler. Uploaded media is
// staged under uploadDir; subtitles are written under outputDir.
func NewTranscribeHandler(w *worker.Worker, uploadDir, outputDir string) *TranscribeHandler {
	return &TranscribeHandler{worker: w, uploadDir: uploadDir, outputDir: outputDir}
}

// optionsFromForm reads the style and output controls from form
// values, falling back to defaults for anything absent.
func (h *TranscribeHandler) optionsFromForm(c echo.Context) (pipeline.JobOptions, error) {
	opts := pipeline.DefaultJobOptions()
	opts.OutputDir = h.outputDir

	if v := c.FormValue("formats"); v != "" {
		opts.Formats = strings.Split(v, ",")
		for i := range opts.Formats {
			opts.Formats[i] = strings.TrimSpace(opts.Formats[i])
		}
	}
	if v := c.FormValue("register"); v != "" {
		opts.Style.Register = style.Register(v)
	}
	if v := c.FormValue("english"); v != "" {
		opts.Style.English = style.EnglishMode(v)
	}
	if v := c.FormValue("numerals"); v != "" {
		opts.Style.Numerals = style.NumeralFormat(v)
	}
	if v := c.FormValue("profanity"); v != "" {
		opts.Style.Profanity = style.ProfanityMode(v)
	}
	opts.CustomVocabulary = c.FormValue("vocabulary")

	// Reject unknown formats now rather than when the worker picks
	// the job up.
	if _, err := opts.ToOptions("probe"); err != nil {
		return pipeline.JobOptions{}, err
	}
	return opts, nil
}

// Upload handles media file upload.
// POST /api/transcribe
func (h *TranscribeHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no file uploaded"})
	}
	if !media.IsSupported(fh.Filename) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unsupported media format: %s", filepath.Ext(fh.Filename)),
		})
	}

	opts, err := h.optionsFromForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open upload"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	staged := filepath.Join(h.uploadDir, uuid.New().String()+filepath.Ext(fh.Filename))
	dst, err := os.Create(staged)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(staged)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	dst.Close()

	opts.BaseName = strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	encoded, err := opts.Encode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	job, err := h.worker.SubmitJob(ctx, storage.JobTypeTranscribe, staged, encoded, storage.JobPriorityNormal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id":  job.ID,
		"message": "transcription queued",
	})
}

// youtubeRequest is the JSON body for YouTube submissions.
type youtubeRequest struct {
	URL     string              `json:"url"`
	Options pipeline.JobOptions `json:"options"`
}

// SubmitYouTube queues a YouTube video for download and
// transcription.
// POST /api/transcribe/youtube
func (h *TranscribeHandler) SubmitYouTube(c echo.Context) error {
	ctx := c.Request().Context()

	req := youtubeRequest{Options: pipeline.DefaultJobOptions()}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.URL) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}

	req.Options.OutputDir = h.outputDir
	if _, err := req.Options.ToOptions("probe"); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	encoded, err := req.Options.Encode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	job, err := h.worker.SubmitJob(ctx, storage.JobTypeYouTubeDownload, req.URL, encoded, storage.JobPriorityNormal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id":  job.ID,
		"message": "download queued",
	})
}
