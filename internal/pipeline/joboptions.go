package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/style"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// JobOptions is the JSON shape stored on a queued job. It mirrors
// Options but keeps formats as plain strings so the payload survives
// a round trip through the job table.
type JobOptions struct {
	OutputDir        string        `json:"output_dir,omitempty"`
	BaseName         string        `json:"base_name,omitempty"`
	Formats          []string      `json:"formats,omitempty"`
	Style            style.Options `json:"style"`
	MaxGap           float64       `json:"max_gap,omitempty"`
	CustomVocabulary string        `json:"custom_vocabulary,omitempty"`
}

// DefaultJobOptions mirrors DefaultOptions in serializable form.
func DefaultJobOptions() JobOptions {
	return JobOptions{
		Formats: []string{string(subtitle.FormatSRT)},
		Style:   style.DefaultOptions(),
		MaxGap:  subtitle.DefaultMaxGap,
	}
}

// DecodeJobOptions parses a job's options column. An empty payload
// yields the defaults.
func DecodeJobOptions(raw string) (JobOptions, error) {
	opts := DefaultJobOptions()
	if strings.TrimSpace(raw) == "" || raw == "{}" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return JobOptions{}, fmt.Errorf("failed to decode job options: %w", err)
	}
	return opts, nil
}

// Encode serializes the options for storage on a job row.
func (o JobOptions) Encode() (string, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("failed to encode job options: %w", err)
	}
	return string(data), nil
}

// ToOptions resolves the stored shape into run options for the given
// input file.
func (o JobOptions) ToOptions(inputPath string) (Options, error) {
	opts := DefaultOptions()
	opts.InputPath = inputPath
	opts.OutputDir = o.OutputDir
	opts.BaseName = o.BaseName
	opts.Style = o.Style
	opts.CustomVocabulary = o.CustomVocabulary
	if o.MaxGap > 0 {
		opts.MaxGap = o.MaxGap
	}
	if len(o.Formats) > 0 {
		formats, err := subtitle.ParseFormats(strings.Join(o.Formats, ","))
		if err != nil {
			return Options{}, err
		}
		opts.Formats = formats
	}
	return opts, nil
}
