package pipeline

import (
	"context"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/asr"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/media"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/vad"
)

// speechRecognizer is the slice of asr.Recognizer the pipeline uses.
type speechRecognizer interface {
	Transcribe(ctx context.Context, samples []float32) ([]subtitle.SpeechSegment, error)
	Close()
}

// Seams for tests; production wiring stays in the defaults.
var (
	extractSamples = media.ExtractSamples

	detectVoice = func(ctx context.Context, config *vad.Config, samples []float32) ([]subtitle.VoiceInterval, error) {
		detector, err := vad.NewDetector(config)
		if err != nil {
			return nil, err
		}
		return detector.Detect(ctx, samples)
	}

	newRecognizer = func(config *asr.Config) (speechRecognizer, error) {
		return asr.NewRecognizer(config)
	}

	exportSegments = subtitle.Export
)
