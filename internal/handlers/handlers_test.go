package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/storage"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/worker"
)

func testDeps(t *testing.T) (*storage.JobRepository, *worker.Worker, string) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := storage.NewJobRepository(db)
	return repo, worker.NewWorker(repo), t.TempDir()
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("not real media"))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestUploadQueuesJob(t *testing.T) {
	repo, w, dir := testDeps(t)
	h := NewTranscribeHandler(w, filepath.Join(dir, "uploads"), filepath.Join(dir, "out"))

	body, contentType := multipartUpload(t, "訪問.wav", map[string]string{
		"formats":    "srt,ass",
		"register":   "written",
		"vocabulary": "茶餐廳",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	job, err := repo.GetByID(context.Background(), resp["job_id"])
	if err != nil || job == nil {
		t.Fatalf("GetByID(%q): job=%v err=%v", resp["job_id"], job, err)
	}
	if job.Type != storage.JobTypeTranscribe || job.Status != storage.JobStatusQueued {
		t.Errorf("job = %+v", job)
	}
	if !strings.Contains(job.Options, `"written"`) || !strings.Contains(job.Options, "茶餐廳") {
		t.Errorf("options not carried: %s", job.Options)
	}
	if _, err := os.Stat(job.InputPath); err != nil {
		t.Errorf("staged upload missing: %v", err)
	}
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	_, w, dir := testDeps(t)
	h := NewTranscribeHandler(w, dir, dir)

	body, contentType := multipartUpload(t, "notes.txt", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	if err := h.Upload(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadRejectsUnknownSubtitleFormat(t *testing.T) {
	_, w, dir := testDeps(t)
	h := NewTranscribeHandler(w, dir, dir)

	body, contentType := multipartUpload(t, "talk.mp3", map[string]string{"formats": "vtt"})
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	if err := h.Upload(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitYouTube(t *testing.T) {
	repo, w, dir := testDeps(t)
	h := NewTranscribeHandler(w, dir, dir)

	payload := `{"url":"https://www.youtube.com/watch?v=abc123","options":{"formats":["srt"],"style":{"register":"semi","english":"keep","numerals":"arabic","profanity":"keep","split_long_lines":false,"max_line_chars":30}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe/youtube", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SubmitYouTube(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("SubmitYouTube: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	job, err := repo.GetByID(context.Background(), resp["job_id"])
	if err != nil || job == nil {
		t.Fatalf("GetByID: job=%v err=%v", job, err)
	}
	if job.Type != storage.JobTypeYouTubeDownload {
		t.Errorf("job type = %q", job.Type)
	}
	if job.InputPath != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("input path = %q", job.InputPath)
	}
}

func TestSubmitYouTubeMissingURL(t *testing.T) {
	_, w, dir := testDeps(t)
	h := NewTranscribeHandler(w, dir, dir)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe/youtube", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SubmitYouTube(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("SubmitYouTube: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestJobGetMissing(t *testing.T) {
	repo, _, _ := testDeps(t)
	h := NewJobHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestJobCancelAndConflict(t *testing.T) {
	repo, _, _ := testDeps(t)
	h := NewJobHandler(repo)
	ctx := context.Background()

	job := &storage.Job{Type: storage.JobTypeTranscribe, InputPath: "/data/a.wav"}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	cancel := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+job.ID+"/cancel", nil)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(job.ID)
		if err := h.Cancel(c); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		return rec
	}

	if rec := cancel(); rec.Code != http.StatusOK {
		t.Fatalf("first cancel status = %d", rec.Code)
	}
	got, _ := repo.GetByID(ctx, job.ID)
	if got.Status != storage.JobStatusCancelled {
		t.Errorf("status = %q", got.Status)
	}
	if rec := cancel(); rec.Code != http.StatusConflict {
		t.Fatalf("second cancel status = %d", rec.Code)
	}
}

func TestJobDownload(t *testing.T) {
	repo, _, dir := testDeps(t)
	h := NewJobHandler(repo)
	ctx := context.Background()

	srtPath := filepath.Join(dir, "talk.srt")
	if err := os.WriteFile(srtPath, []byte("1\n00:00:00,200 --> 00:00:03,800\n我想食個午餐\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	job := &storage.Job{Type: storage.JobTypeTranscribe, InputPath: "/data/talk.wav"}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}
	paths, _ := json.Marshal([]string{srtPath})
	if err := repo.Start(ctx, job.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.Complete(ctx, job.ID, string(paths)); err != nil {
		t.Fatal(err)
	}

	download := func(format string) *httptest.ResponseRecorder {
		target := "/api/jobs/" + job.ID + "/download"
		if format != "" {
			target += "?format=" + format
		}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(job.ID)
		if err := h.Download(c); err != nil {
			t.Fatalf("Download: %v", err)
		}
		return rec
	}

	rec := download("")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "我想食個午餐") {
		t.Errorf("body = %q", rec.Body.String())
	}

	if rec := download("ass"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing format status = %d", rec.Code)
	}
}
