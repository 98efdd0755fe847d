package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/storage"
)

// JobHandler serves the job tracking API.
type JobHandler struct {
	repo *storage.JobRepository
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(repo *storage.JobRepository) *JobHandler {
	return &JobHandler{repo: repo}
}

// List returns recent jobs.
// GET /api/jobs
func (h *JobHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	jobs, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, jobs)
}

// Get returns one job with its progress and current step.
// GET /api/jobs/:id
func (h *JobHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	return c.JSON(http.StatusOK, job)
}

// Cancel marks a queued or running job cancelled. A running job stops
// at its next stage boundary.
// POST /api/jobs/:id/cancel
func (h *JobHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	if job.Status != storage.JobStatusQueued && job.Status != storage.JobStatusRunning {
		return c.JSON(http.StatusConflict, map[string]string{"error": "job is not cancellable"})
	}

	if err := h.repo.Cancel(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": storage.JobStatusCancelled})
}

// Delete removes a job record.
// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Download serves one of a completed job's subtitle files, selected
// by the format query parameter (default srt).
// GET /api/jobs/:id/download?format=srt
func (h *JobHandler) Download(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	if job.Status != storage.JobStatusCompleted {
		return c.JSON(http.StatusConflict, map[string]string{"error": "job is not completed"})
	}

	var paths []string
	if err := json.Unmarshal([]byte(job.OutputPaths), &paths); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "corrupt output paths"})
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "srt"
	}
	ext := "." + strings.ToLower(format)
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ext) {
			return c.Attachment(p, filepath.Base(p))
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "no output in format " + format})
}
