// Command server runs the transcription API: uploads and YouTube
// submissions are queued as jobs and processed one at a time by the
// background worker.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/asr"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/handlers"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/llm"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/mt"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/pipeline"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/storage"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/style"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/vad"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/version"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/worker"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/youtube"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	port := getenv("PORT", "8080")
	dataDir := getenv("DATA_DIR", "data")
	asrModelDir := getenv("ASR_MODEL_DIR", "models/sherpa-onnx-whisper-large-v3")
	vadModelPath := getenv("VAD_MODEL", "models/silero_vad.onnx")
	llmModel := getenv("LLM_MODEL", "qwen2.5:7b")

	db, err := storage.Open(filepath.Join(dataDir, "cantobeats.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	jobRepo := storage.NewJobRepository(db)

	llmClient := llm.NewClient(llm.DefaultConfig(llmModel))
	mtConfig := mt.DefaultConfig()
	if v := os.Getenv("MT_URL"); v != "" {
		mtConfig.BaseURL = v
	}
	engine := style.NewEngine(&style.Config{
		LLM: llmClient,
		MT:  mt.NewClient(mtConfig),
	})

	pipelineConfig := &pipeline.Config{
		ASR:       asr.DefaultConfig(asrModelDir),
		Engine:    engine,
		UnloadLLM: llmClient.Unload,
	}
	if vadModelPath != "" {
		pipelineConfig.VAD = vad.DefaultConfig(vadModelPath)
	}
	p, err := pipeline.New(pipelineConfig)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloadDir := filepath.Join(dataDir, "downloads")
	w := worker.NewWorker(jobRepo)
	w.RegisterHandler(storage.JobTypeTranscribe, worker.TranscribeJobHandler(jobRepo, p))
	w.RegisterHandler(storage.JobTypeYouTubeDownload, worker.YouTubeJobHandler(jobRepo, youtube.NewClient(), downloadDir, p))
	w.Start(ctx)
	defer w.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	transcribeHandler := handlers.NewTranscribeHandler(w, filepath.Join(dataDir, "uploads"), filepath.Join(dataDir, "subtitles"))
	jobHandler := handlers.NewJobHandler(jobRepo)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	})
	e.POST("/api/transcribe", transcribeHandler.Upload)
	e.POST("/api/transcribe/youtube", transcribeHandler.SubmitYouTube)
	e.GET("/api/jobs", jobHandler.List)
	e.GET("/api/jobs/:id", jobHandler.Get)
	e.POST("/api/jobs/:id/cancel", jobHandler.Cancel)
	e.DELETE("/api/jobs/:id", jobHandler.Delete)
	e.GET("/api/jobs/:id/download", jobHandler.Download)

	go func() {
		log.Printf("Starting Canto Beats v%s on port %s", version.Version, port)
		if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
