// Package pipeline sequences the transcription flow: audio
// extraction, voice detection, speech recognition, segment merging,
// style transformation, and subtitle export. It owns the accelerator
// memory discipline: the speech model and the style LLM are never
// resident at the same time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/asr"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/style"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/vad"
)

// Config wires the pipeline's collaborators.
type Config struct {
	ASR *asr.Config
	// VAD may be nil; segments then keep the recognizer's timing.
	VAD    *vad.Config
	Engine *style.Engine

	// UnloadLLM evicts the style model from the local model server
	// once styling is finished. Optional.
	UnloadLLM func(ctx context.Context) error
	// ReleaseMemory runs after each model release; hook for
	// accelerator cache clearing. Optional.
	ReleaseMemory func()
}

// Options selects the inputs and outputs of one run.
type Options struct {
	InputPath string
	OutputDir string
	// BaseName for output files; derived from InputPath when empty.
	BaseName         string
	Formats          []subtitle.Format
	Style            style.Options
	MaxGap           float64
	CustomVocabulary string
}

// DefaultOptions returns the default run options: SRT output, the
// conservative style defaults, the standard merge gap tolerance.
func DefaultOptions() Options {
	return Options{
		Formats: []subtitle.Format{subtitle.FormatSRT},
		Style:   style.DefaultOptions(),
		MaxGap:  subtitle.DefaultMaxGap,
	}
}

// Result carries a completed run's output.
type Result struct {
	Segments    []subtitle.StyledSegment
	OutputPaths []string
	// Warnings records non-fatal degradations: voice detection
	// skipped, an output format that failed, a disabled normalizer.
	Warnings []string
}

// ProgressFunc receives monotonically increasing progress with a
// stage label.
type ProgressFunc func(progressPercent int, currentStep string)

// Pipeline runs transcription jobs. Safe to reuse across runs; each
// Run loads and releases its own models.
type Pipeline struct {
	config *Config
}

// New validates config and returns a Pipeline.
func New(config *Config) (*Pipeline, error) {
	if config == nil || config.ASR == nil {
		return nil, fmt.Errorf("ASR config is required")
	}
	if config.Engine == nil {
		return nil, fmt.Errorf("style engine is required")
	}
	return &Pipeline{config: config}, nil
}

// run tracks the state machine of one invocation.
type run struct {
	onProgress ProgressFunc
	stage      Stage
	progress   int
}

// enter moves to the next stage and reports its starting progress.
func (r *run) enter(stage Stage, percent int) {
	r.stage = stage
	r.report(percent)
}

// report publishes progress, clamped so it never moves backward.
func (r *run) report(percent int) {
	if percent < r.progress {
		percent = r.progress
	}
	if percent > 100 {
		percent = 100
	}
	r.progress = percent
	if r.onProgress != nil {
		r.onProgress(percent, r.stage.Label())
	}
}

// checkCancelled observes a pending cancellation at a stage
// boundary. A stage already in flight is never interrupted.
func (r *run) checkCancelled(ctx context.Context) *Error {
	if err := ctx.Err(); err != nil {
		stage := r.stage
		r.stage = StageCancelled
		return &Error{Kind: KindCancelled, Stage: stage, Err: err}
	}
	return nil
}

// Run executes the full pipeline for one input file.
func (p *Pipeline) Run(ctx context.Context, opts Options, onProgress ProgressFunc) (*Result, error) {
	r := &run{onProgress: onProgress, stage: StageIdle}
	result := &Result{}

	scope := &modelScope{}
	defer scope.releaseAll()

	fail := func(err error) (*Result, error) {
		stage := r.stage
		r.stage = StageFailed
		return nil, classify(stage, err)
	}

	// Stage 1: decode audio to 16kHz mono samples.
	r.enter(StageExtractingAudio, 2)
	samples, err := extractSamples(ctx, opts.InputPath)
	if err != nil {
		if ctx.Err() != nil {
			r.stage = StageCancelled
			return nil, &Error{Kind: KindCancelled, Stage: StageExtractingAudio, Err: ctx.Err()}
		}
		return fail(err)
	}

	// Stage 2: voice activity detection. Degrades to pass-through
	// when no detector is configured or the model cannot be used.
	if cancelErr := r.checkCancelled(ctx); cancelErr != nil {
		return nil, cancelErr
	}
	r.enter(StageDetectingVoice, 12)
	var intervals []subtitle.VoiceInterval
	if p.config.VAD != nil {
		intervals, err = detectVoice(ctx, p.config.VAD, samples)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				r.stage = StageCancelled
				return nil, &Error{Kind: KindCancelled, Stage: StageDetectingVoice, Err: err}
			}
			warn := fmt.Sprintf("voice detection unavailable, keeping recognizer timing: %v", err)
			log.Print(warn)
			result.Warnings = append(result.Warnings, warn)
			intervals = nil
		}
	}

	// Stage 3: speech recognition. The model is released before the
	// style stage so it is never resident alongside the LLM.
	if cancelErr := r.checkCancelled(ctx); cancelErr != nil {
		return nil, cancelErr
	}
	r.enter(StageTranscribing, 25)
	asrConfig := *p.config.ASR
	asrConfig.VocabularyPrompt = asr.BuildPrompt(opts.CustomVocabulary)
	recognizer, err := newRecognizer(&asrConfig)
	if err != nil {
		return fail(err)
	}
	scope.add(func() {
		recognizer.Close()
		if p.config.ReleaseMemory != nil {
			p.config.ReleaseMemory()
		}
	})
	speech, err := recognizer.Transcribe(ctx, samples)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.stage = StageCancelled
			return nil, &Error{Kind: KindCancelled, Stage: StageTranscribing, Err: err}
		}
		return fail(err)
	}
	scope.releaseAll()
	r.report(65)

	// Stage 4: reconcile recognizer segments with voice intervals.
	if cancelErr := r.checkCancelled(ctx); cancelErr != nil {
		return nil, cancelErr
	}
	r.enter(StageMerging, 67)
	merged, err := subtitle.Merge(speech, intervals, opts.MaxGap)
	if err != nil {
		return fail(err)
	}

	// Stage 5: clean and transform text.
	if cancelErr := r.checkCancelled(ctx); cancelErr != nil {
		return nil, cancelErr
	}
	r.enter(StageStyling, 70)
	if p.config.UnloadLLM != nil {
		scope.add(func() {
			if err := p.config.UnloadLLM(context.Background()); err != nil {
				log.Printf("llm unload failed: %v", err)
			}
			if p.config.ReleaseMemory != nil {
				p.config.ReleaseMemory()
			}
		})
	}
	if opts.Style.English != style.EnglishKeep && !p.config.Engine.NormalizerAvailable() {
		warn := "script normalizer unavailable: model translations disabled, dictionary only"
		log.Print(warn)
		result.Warnings = append(result.Warnings, warn)
	}
	cleaned := p.config.Engine.CleanSegments(merged)
	styled := p.config.Engine.TransformSegments(ctx, cleaned, opts.Style, func(done, total int) {
		if total > 0 {
			r.report(70 + 20*done/total)
		}
	})
	scope.releaseAll()

	// Stage 6: write output files. One failing format does not block
	// the others; the run fails only when every format fails.
	if cancelErr := r.checkCancelled(ctx); cancelErr != nil {
		return nil, cancelErr
	}
	r.enter(StageExporting, 92)
	baseName := opts.BaseName
	if baseName == "" {
		name := filepath.Base(opts.InputPath)
		baseName = strings.TrimSuffix(name, filepath.Ext(name))
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []subtitle.Format{subtitle.FormatSRT}
	}
	var exportErrs []error
	for _, format := range formats {
		path := filepath.Join(opts.OutputDir, baseName+"."+string(format))
		if err := exportSegments(styled, path, format); err != nil {
			log.Printf("export %s failed: %v", format, err)
			exportErrs = append(exportErrs, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("export %s failed: %v", format, err))
			continue
		}
		result.OutputPaths = append(result.OutputPaths, path)
	}
	if len(exportErrs) == len(formats) {
		return fail(errors.Join(exportErrs...))
	}

	result.Segments = styled
	r.enter(StageDone, 100)
	return result, nil
}
