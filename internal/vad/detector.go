// Package vad finds speech regions in an audio stream with a Silero
// voice-activity model running under sherpa-onnx.
package vad

import (
	"context"
	"errors"
	"fmt"
	"os"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// ErrModelLoad is returned when the detection model is missing or
// cannot be loaded.
var ErrModelLoad = errors.New("VAD model load failed")

// Config holds voice-activity detection parameters.
type Config struct {
	ModelPath          string  // Path to silero_vad.onnx
	Threshold          float32 // Speech detection threshold (0-1, default 0.5)
	MinSpeechDuration  float32 // Minimum speech duration in seconds (default 0.25)
	MinSilenceDuration float32 // Minimum silence duration to split (default 0.5)
	SampleRate         int
	NumThreads         int
}

// DefaultConfig returns the default detection parameters.
func DefaultConfig(modelPath string) *Config {
	return &Config{
		ModelPath:          modelPath,
		Threshold:          0.5,
		MinSpeechDuration:  0.25,
		MinSilenceDuration: 0.5,
		SampleRate:         16000,
		NumThreads:         1,
	}
}

// Validate checks the configuration and the model file.
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("VAD model path is empty")
	}
	if _, err := os.Stat(c.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: model not found: %s", ErrModelLoad, c.ModelPath)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", c.SampleRate)
	}
	return nil
}

// Detector runs voice-activity detection over in-memory samples. The
// underlying model is created per Detect call and released when the
// call returns, so an idle Detector holds no accelerator memory.
type Detector struct {
	config *Config
}

// NewDetector validates the configuration and returns a Detector.
func NewDetector(config *Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Detector{config: config}, nil
}

// windowSize is the Silero model's fixed input window in samples.
const windowSize = 512

// Detect feeds samples through the model window by window and
// returns the detected voice intervals in order.
func (d *Detector) Detect(ctx context.Context, samples []float32) ([]subtitle.VoiceInterval, error) {
	modelConfig := sherpa.VadModelConfig{
		SileroVad: sherpa.SileroVadModelConfig{
			Model:              d.config.ModelPath,
			Threshold:          d.config.Threshold,
			MinSilenceDuration: d.config.MinSilenceDuration,
			MinSpeechDuration:  d.config.MinSpeechDuration,
			WindowSize:         windowSize,
		},
		SampleRate: d.config.SampleRate,
		NumThreads: d.config.NumThreads,
		Debug:      0,
	}

	vad := sherpa.NewVoiceActivityDetector(&modelConfig, 30) // 30 seconds buffer
	if vad == nil {
		return nil, fmt.Errorf("%w: failed to create detector from %s", ErrModelLoad, d.config.ModelPath)
	}
	defer sherpa.DeleteVoiceActivityDetector(vad)

	rate := float64(d.config.SampleRate)
	var intervals []subtitle.VoiceInterval

	collect := func() error {
		for !vad.IsEmpty() {
			segment := vad.Front()
			vad.Pop()
			start := float64(segment.Start) / rate
			end := start + float64(len(segment.Samples))/rate
			span, err := subtitle.NewTimeSpan(start, end)
			if err != nil {
				return fmt.Errorf("VAD produced bad interval: %w", err)
			}
			intervals = append(intervals, subtitle.VoiceInterval{Span: span})
		}
		return nil
	}

	for offset := 0; offset < len(samples); offset += windowSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := offset + windowSize
		if end > len(samples) {
			end = len(samples)
		}
		vad.AcceptWaveform(samples[offset:end])
		if err := collect(); err != nil {
			return nil, err
		}
	}

	vad.Flush()
	if err := collect(); err != nil {
		return nil, err
	}
	return intervals, nil
}
