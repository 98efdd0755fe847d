package style

import (
	"strings"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// Speech models hallucinate near the end of audio where real speech
// has stopped: looping the same phrase, or emitting long runs of a
// single interjection. These filters are deliberately narrow; a real
// repeated line ("好呀好呀") survives, a dozen identical segments do
// not.
const (
	maxIdenticalRun  = 3
	maxFillerRepeat  = 5
	tailFraction     = 0.7
	tailInterjectMin = 2
)

var interjections = map[rune]bool{
	'哦': true,
	'嗯': true,
	'啊': true,
	'呀': true,
	'喔': true,
	'噢': true,
	'唉': true,
}

// dropHallucinations removes hallucinated segments: runs of identical
// consecutive text are collapsed, single-rune filler runs are
// dropped, and interjection-only segments in the tail of the
// timeline are dropped.
func dropHallucinations(segments []subtitle.Segment) []subtitle.Segment {
	if len(segments) == 0 {
		return segments
	}
	tailStart := segments[len(segments)-1].Span.End * tailFraction

	out := make([]subtitle.Segment, 0, len(segments))
	identicalRun := 1
	for i, seg := range segments {
		if i > 0 && seg.Text == segments[i-1].Text {
			identicalRun++
		} else {
			identicalRun = 1
		}
		if identicalRun >= maxIdenticalRun {
			continue
		}
		if isFillerRun(seg.Text) {
			continue
		}
		if seg.Span.Start >= tailStart && isInterjectionOnly(seg.Text) {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// isFillerRun reports whether text is one rune repeated to the point
// of noise.
func isFillerRun(text string) bool {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < maxFillerRepeat {
		return false
	}
	for _, r := range runes {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// isInterjectionOnly reports whether text is nothing but repeated
// interjection characters.
func isInterjectionOnly(text string) bool {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < tailInterjectMin {
		return false
	}
	for _, r := range runes {
		if !interjections[r] {
			return false
		}
	}
	return true
}
