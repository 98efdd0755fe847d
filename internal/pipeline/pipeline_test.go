package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/asr"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/media"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/style"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/vad"
)

type fakeRecognizer struct {
	segments []subtitle.SpeechSegment
	err      error
	onDone   func()
	closed   bool
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, samples []float32) ([]subtitle.SpeechSegment, error) {
	if f.onDone != nil {
		defer f.onDone()
	}
	return f.segments, f.err
}

func (f *fakeRecognizer) Close() { f.closed = true }

// installHooks swaps the pipeline seams for the duration of a test.
func installHooks(t *testing.T, rec *fakeRecognizer, intervals []subtitle.VoiceInterval) {
	t.Helper()
	origExtract, origDetect, origNew, origExport := extractSamples, detectVoice, newRecognizer, exportSegments
	t.Cleanup(func() {
		extractSamples, detectVoice, newRecognizer, exportSegments = origExtract, origDetect, origNew, origExport
	})
	extractSamples = func(ctx context.Context, path string) ([]float32, error) {
		return make([]float32, 16000), nil
	}
	detectVoice = func(ctx context.Context, config *vad.Config, samples []float32) ([]subtitle.VoiceInterval, error) {
		return intervals, nil
	}
	newRecognizer = func(config *asr.Config) (speechRecognizer, error) {
		return rec, nil
	}
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(&Config{
		ASR:    asr.DefaultConfig("/models/whisper"),
		VAD:    vad.DefaultConfig("/models/silero_vad.onnx"),
		Engine: style.NewEngine(nil),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRunEndToEnd(t *testing.T) {
	rec := &fakeRecognizer{segments: []subtitle.SpeechSegment{{
		Span: subtitle.TimeSpan{Start: 0.0, End: 4.0},
		Text: "我想食個lunch",
	}}}
	installHooks(t, rec, []subtitle.VoiceInterval{{Span: subtitle.TimeSpan{Start: 0.2, End: 3.8}}})

	dir := t.TempDir()
	opts := DefaultOptions()
	opts.InputPath = "/audio/talk.mp3"
	opts.OutputDir = dir
	opts.Formats = []subtitle.Format{subtitle.FormatSRT}
	opts.Style.English = style.EnglishTranslate

	var lastPercent int
	result, err := testPipeline(t).Run(context.Background(), opts, func(percent int, step string) {
		if percent < lastPercent {
			t.Errorf("progress moved backward: %d after %d (%s)", percent, lastPercent, step)
		}
		lastPercent = percent
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if lastPercent != 100 {
		t.Errorf("final progress = %d", lastPercent)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("got %d segments", len(result.Segments))
	}
	seg := result.Segments[0]
	if seg.Span != (subtitle.TimeSpan{Start: 0.2, End: 3.8}) {
		t.Errorf("span = %+v, want refined to voice interval", seg.Span)
	}
	if seg.Text != "我想食個午餐" {
		t.Errorf("text = %q, want 我想食個午餐", seg.Text)
	}
	if !rec.closed {
		t.Error("recognizer not released")
	}

	data, err := os.ReadFile(filepath.Join(dir, "talk.srt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1\n00:00:00,200 --> 00:00:03,800\n我想食個午餐\n\n"
	if string(data) != want {
		t.Errorf("SRT = %q, want %q", data, want)
	}
}

func TestRunCancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// Cancel once transcription has completed; the merge stage must
	// not be entered and no file written.
	rec := &fakeRecognizer{
		segments: []subtitle.SpeechSegment{{Span: subtitle.TimeSpan{Start: 0, End: 1}, Text: "喂"}},
		onDone:   cancel,
	}
	installHooks(t, rec, nil)

	dir := t.TempDir()
	opts := DefaultOptions()
	opts.InputPath = "/audio/talk.mp3"
	opts.OutputDir = dir

	var sawMerge bool
	_, err := testPipeline(t).Run(ctx, opts, func(percent int, step string) {
		if step == StageMerging.Label() {
			sawMerge = true
		}
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != KindCancelled {
		t.Fatalf("err = %v, want KindCancelled", err)
	}
	if sawMerge {
		t.Error("merge stage entered after cancellation")
	}
	if !rec.closed {
		t.Error("recognizer must be released on the cancel path")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output files written after cancellation: %v", entries)
	}
}

func TestRunModelLoadFailure(t *testing.T) {
	installHooks(t, &fakeRecognizer{}, nil)
	newRecognizer = func(config *asr.Config) (speechRecognizer, error) {
		return nil, fmt.Errorf("%w: encoder model not found in /models/whisper", asr.ErrModelLoad)
	}

	opts := DefaultOptions()
	opts.InputPath = "/audio/talk.mp3"
	opts.OutputDir = t.TempDir()

	_, err := testPipeline(t).Run(context.Background(), opts, nil)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != KindModelLoad {
		t.Fatalf("err = %v, want KindModelLoad", err)
	}
	if perr.Stage != StageTranscribing {
		t.Errorf("stage = %s", perr.Stage)
	}
}

func TestRunAllExportsFail(t *testing.T) {
	rec := &fakeRecognizer{segments: []subtitle.SpeechSegment{{Span: subtitle.TimeSpan{Start: 0, End: 1}, Text: "喂"}}}
	installHooks(t, rec, nil)
	exportSegments = func(segments []subtitle.StyledSegment, path string, format subtitle.Format) error {
		return subtitle.ErrExportIO
	}

	opts := DefaultOptions()
	opts.InputPath = "/audio/talk.mp3"
	opts.OutputDir = t.TempDir()
	opts.Formats = []subtitle.Format{subtitle.FormatSRT, subtitle.FormatASS}

	_, err := testPipeline(t).Run(context.Background(), opts, nil)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != KindExportIO {
		t.Fatalf("err = %v, want KindExportIO", err)
	}
}

func TestRunPartialExportFailure(t *testing.T) {
	rec := &fakeRecognizer{segments: []subtitle.SpeechSegment{{Span: subtitle.TimeSpan{Start: 0, End: 1}, Text: "喂"}}}
	installHooks(t, rec, nil)
	realExport := subtitle.Export
	exportSegments = func(segments []subtitle.StyledSegment, path string, format subtitle.Format) error {
		if format == subtitle.FormatASS {
			return subtitle.ErrExportIO
		}
		return realExport(segments, path, format)
	}

	opts := DefaultOptions()
	opts.InputPath = "/audio/talk.mp3"
	opts.OutputDir = t.TempDir()
	opts.Formats = []subtitle.Format{subtitle.FormatSRT, subtitle.FormatASS}

	result, err := testPipeline(t).Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("partial export failure must not fail the run: %v", err)
	}
	if len(result.OutputPaths) != 1 || !strings.HasSuffix(result.OutputPaths[0], ".srt") {
		t.Errorf("output paths = %v", result.OutputPaths)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the failed format")
	}
}

func TestRunUnsupportedInput(t *testing.T) {
	installHooks(t, &fakeRecognizer{}, nil)
	extractSamples = func(ctx context.Context, path string) ([]float32, error) {
		return nil, fmt.Errorf("%w: .txt", media.ErrUnsupportedFormat)
	}

	opts := DefaultOptions()
	opts.InputPath = "/docs/notes.txt"
	opts.OutputDir = t.TempDir()

	_, err := testPipeline(t).Run(context.Background(), opts, nil)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != KindUnsupportedFormat {
		t.Fatalf("err = %v, want KindUnsupportedFormat", err)
	}
}
