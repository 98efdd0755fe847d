// Package subtitle holds the timed-text data model shared by the
// transcription pipeline: speech segments from the recognizer, voice
// intervals from the detector, merged subtitle segments, and the
// exporters that write them out.
package subtitle

import (
	"errors"
	"fmt"
)

// ErrInvalidSegment is returned when a time span violates the timing
// contract (negative start, or end not after start).
var ErrInvalidSegment = errors.New("invalid segment timing")

// TimeSpan is a half-open interval [Start, End) in seconds.
type TimeSpan struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NewTimeSpan validates and builds a TimeSpan. Start must be >= 0 and
// End must be strictly greater than Start.
func NewTimeSpan(start, end float64) (TimeSpan, error) {
	if start < 0 || end <= start {
		return TimeSpan{}, fmt.Errorf("%w: start=%.3f end=%.3f", ErrInvalidSegment, start, end)
	}
	return TimeSpan{Start: start, End: end}, nil
}

// Duration returns the span length in seconds.
func (s TimeSpan) Duration() float64 {
	return s.End - s.Start
}

// Overlaps reports whether the two spans share any time.
func (s TimeSpan) Overlaps(o TimeSpan) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies entirely inside s.
func (s TimeSpan) Contains(o TimeSpan) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Word is a recognized token with its own timing inside a segment.
type Word struct {
	Text string   `json:"text"`
	Span TimeSpan `json:"span"`
}

// SpeechSegment is a unit of recognized speech as produced by the
// recognizer, before any merging with voice activity boundaries.
type SpeechSegment struct {
	Span  TimeSpan `json:"span"`
	Text  string   `json:"text"`
	Words []Word   `json:"words,omitempty"`
}

// VoiceInterval is a region of detected voice activity.
type VoiceInterval struct {
	Span TimeSpan `json:"span"`
}

// Segment is a finished subtitle cue: non-empty text on a valid span.
type Segment struct {
	Span TimeSpan `json:"span"`
	Text string   `json:"text"`
}

// StyledSegment carries the styled text alongside the raw recognizer
// text so callers can show before/after views.
type StyledSegment struct {
	Span    TimeSpan `json:"span"`
	Text    string   `json:"text"`
	RawText string   `json:"raw_text,omitempty"`
}
