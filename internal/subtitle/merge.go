package subtitle

import (
	"fmt"
	"sort"
)

// DefaultMaxGap is the gap tolerance, in seconds, between consecutive
// voice intervals overlapping the same speech segment. Larger gaps
// indicate the recognizer merged two utterances, but the text cannot
// be re-partitioned reliably, so the original span is still kept.
const DefaultMaxGap = 0.8

// Merge reconciles recognizer segments against voice-activity
// intervals to produce refined subtitle segments.
//
// When exactly one voice interval overlaps a speech segment and one
// of the two spans fully contains the other, the interval's
// boundaries win: the detector is more precise at silence edges than
// the recognizer's timestamp model, so a segment padded with leading
// or trailing silence is trimmed to the detected voice. When several
// intervals overlap one segment, or none do, the segment's own span
// is kept. The output is strictly ordered by start with no overlaps;
// adjacent spans are clamped where refinement would otherwise make
// them collide.
func Merge(speech []SpeechSegment, voice []VoiceInterval, maxGap float64) ([]Segment, error) {
	if maxGap <= 0 {
		maxGap = DefaultMaxGap
	}
	for i, seg := range speech {
		if _, err := NewTimeSpan(seg.Span.Start, seg.Span.End); err != nil {
			return nil, fmt.Errorf("speech segment %d: %w", i, err)
		}
	}
	for i, iv := range voice {
		if _, err := NewTimeSpan(iv.Span.Start, iv.Span.End); err != nil {
			return nil, fmt.Errorf("voice interval %d: %w", i, err)
		}
	}

	merged := make([]Segment, 0, len(speech))
	for _, seg := range speech {
		if seg.Text == "" {
			continue
		}
		span := refineSpan(seg.Span, voice)
		merged = append(merged, Segment{Span: span, Text: seg.Text})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Span.Start < merged[j].Span.Start
	})

	// Clamp adjacent spans, then drop anything squeezed to nothing.
	for i := 0; i < len(merged)-1; i++ {
		if merged[i].Span.End > merged[i+1].Span.Start {
			merged[i].Span.End = merged[i+1].Span.Start
		}
	}
	out := merged[:0]
	for _, seg := range merged {
		if seg.Span.End > seg.Span.Start {
			out = append(out, seg)
		}
	}
	return out, nil
}

// refineSpan applies the containment rule for one segment.
func refineSpan(span TimeSpan, voice []VoiceInterval) TimeSpan {
	var overlapping []TimeSpan
	for _, iv := range voice {
		if span.Overlaps(iv.Span) {
			overlapping = append(overlapping, iv.Span)
		}
	}
	if len(overlapping) == 1 {
		iv := overlapping[0]
		if iv.Contains(span) || span.Contains(iv) {
			return iv
		}
	}
	// Zero or multiple overlaps: the recognizer's own span is the
	// fallback source of truth. Splitting across a large gap would
	// need a reliable text partition, which we do not have.
	return span
}
