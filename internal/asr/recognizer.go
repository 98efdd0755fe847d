// Package asr wraps a Whisper-family speech model running under
// sherpa-onnx for offline Cantonese transcription.
package asr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// ErrModelLoad is returned when the speech model files are missing or
// cannot be loaded.
var ErrModelLoad = errors.New("ASR model load failed")

// Config holds configuration for the speech model.
type Config struct {
	ModelDir   string
	Language   string // yue, zh, en, or empty for auto-detect
	Task       string // transcribe or translate
	NumThreads int
	SampleRate int

	// VocabularyPrompt biases decoding toward expected terms. Built
	// with BuildPrompt; written out as a hotwords file for the model.
	VocabularyPrompt string
}

// DefaultConfig returns the default configuration for Cantonese.
func DefaultConfig(modelDir string) *Config {
	return &Config{
		ModelDir:   modelDir,
		Language:   "yue",
		Task:       "transcribe",
		NumThreads: 4,
		SampleRate: 16000,
	}
}

// chunkSeconds is the model's native window; longer audio is decoded
// in chunks of this size.
const chunkSeconds = 30

// Recognizer wraps the loaded model. Close must be called to release
// the model's memory; the orchestrator never keeps a Recognizer
// loaded alongside the style LLM.
type Recognizer struct {
	recognizer *sherpa.OfflineRecognizer
	config     *Config
}

// NewRecognizer loads the model files from config.ModelDir.
func NewRecognizer(config *Config) (*Recognizer, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	encoderCandidates := []string{
		"encoder.int8.onnx",
		"encoder.onnx",
		"large-v3-encoder.int8.onnx",
		"large-v3-encoder.onnx",
		"turbo-encoder.int8.onnx",
		"turbo-encoder.onnx",
	}
	decoderCandidates := []string{
		"decoder.int8.onnx",
		"decoder.onnx",
		"large-v3-decoder.int8.onnx",
		"large-v3-decoder.onnx",
		"turbo-decoder.int8.onnx",
		"turbo-decoder.onnx",
	}
	tokensCandidates := []string{
		"tokens.txt",
		"large-v3-tokens.txt",
	}

	encoderPath := findModelFile(config.ModelDir, encoderCandidates)
	decoderPath := findModelFile(config.ModelDir, decoderCandidates)
	tokensPath := findModelFile(config.ModelDir, tokensCandidates)

	if encoderPath == "" {
		return nil, fmt.Errorf("%w: encoder model not found in %s", ErrModelLoad, config.ModelDir)
	}
	if decoderPath == "" {
		return nil, fmt.Errorf("%w: decoder model not found in %s", ErrModelLoad, config.ModelDir)
	}
	if tokensPath == "" {
		return nil, fmt.Errorf("%w: tokens file not found in %s", ErrModelLoad, config.ModelDir)
	}

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: config.SampleRate,
			FeatureDim: 80,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Whisper: sherpa.OfflineWhisperModelConfig{
				Encoder:  encoderPath,
				Decoder:  decoderPath,
				Language: config.Language,
				Task:     config.Task,
			},
			Tokens:     tokensPath,
			NumThreads: config.NumThreads,
			Debug:      0,
		},
	}

	if config.VocabularyPrompt != "" {
		hotwordsPath, err := writeHotwordsFile(config.VocabularyPrompt)
		if err != nil {
			return nil, fmt.Errorf("write hotwords file: %w", err)
		}
		sherpaConfig.HotwordsFile = hotwordsPath
		sherpaConfig.HotwordsScore = 1.5
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("%w: failed to create recognizer from %s", ErrModelLoad, config.ModelDir)
	}

	return &Recognizer{recognizer: recognizer, config: config}, nil
}

// Close releases the model resources.
func (r *Recognizer) Close() {
	if r.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(r.recognizer)
		r.recognizer = nil
	}
}

// Transcribe decodes the full sample stream in model-sized chunks
// and returns speech segments cut at sentence punctuation. The model
// reports no reliable per-token timing, so word timestamps are
// distributed uniformly across each chunk.
func (r *Recognizer) Transcribe(ctx context.Context, samples []float32) ([]subtitle.SpeechSegment, error) {
	chunkSamples := r.config.SampleRate * chunkSeconds

	var words []subtitle.Word
	for offset := 0; offset < len(samples); offset += chunkSamples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := offset + chunkSamples
		if end > len(samples) {
			end = len(samples)
		}
		startSec := float64(offset) / float64(r.config.SampleRate)
		endSec := float64(end) / float64(r.config.SampleRate)
		words = append(words, r.transcribeChunk(samples[offset:end], startSec, endSec)...)
	}
	return wordsToSegments(words), nil
}

// transcribeChunk decodes one chunk and spreads its tokens uniformly
// over [startSec, endSec).
func (r *Recognizer) transcribeChunk(samples []float32, startSec, endSec float64) []subtitle.Word {
	if len(samples) == 0 {
		return nil
	}

	stream := sherpa.NewOfflineStream(r.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(r.config.SampleRate, samples)
	r.recognizer.Decode(stream)

	result := stream.GetResult()
	if result == nil || strings.TrimSpace(result.Text) == "" {
		return nil
	}

	var tokens []string
	for _, t := range result.Tokens {
		if strings.TrimSpace(t) != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		tokens = []string{strings.TrimSpace(result.Text)}
	}

	perToken := (endSec - startSec) / float64(len(tokens))
	words := make([]subtitle.Word, len(tokens))
	for i, t := range tokens {
		words[i] = subtitle.Word{
			Text: t,
			Span: subtitle.TimeSpan{
				Start: startSec + float64(i)*perToken,
				End:   startSec + float64(i+1)*perToken,
			},
		}
	}
	return words
}

// findModelFile returns the first candidate that exists in dir.
func findModelFile(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// writeHotwordsFile writes one vocabulary term per line to a temp
// file for the decoder.
func writeHotwordsFile(prompt string) (string, error) {
	f, err := os.CreateTemp("", "hotwords-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()
	for _, term := range strings.Fields(prompt) {
		if _, err := fmt.Fprintln(f, term); err != nil {
			return "", err
		}
	}
	return f.Name(), nil
}
