package asr

import (
	"strings"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// A segment closes after sentence-final punctuation or once it
// carries this many runes.
const maxSegmentRunes = 30

var sentencePunctuation = map[string]bool{
	"。": true,
	"！": true,
	"？": true,
	"，": true,
	".": true,
	"!": true,
	"?": true,
	",": true,
}

// wordsToSegments groups timed words into subtitle-sized segments.
// Punctuation tokens close the current segment without appearing in
// its text.
func wordsToSegments(words []subtitle.Word) []subtitle.SpeechSegment {
	var segments []subtitle.SpeechSegment
	var current []subtitle.Word
	runeCount := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		var text strings.Builder
		for _, w := range current {
			text.WriteString(w.Text)
		}
		trimmed := strings.TrimSpace(text.String())
		if trimmed != "" {
			segments = append(segments, subtitle.SpeechSegment{
				Span: subtitle.TimeSpan{
					Start: current[0].Span.Start,
					End:   current[len(current)-1].Span.End,
				},
				Text:  trimmed,
				Words: current,
			})
		}
		current = nil
		runeCount = 0
	}

	for _, w := range words {
		if sentencePunctuation[strings.TrimSpace(w.Text)] {
			if len(current) > 0 {
				current[len(current)-1].Span.End = w.Span.End
			}
			flush()
			continue
		}
		current = append(current, w)
		runeCount += len([]rune(w.Text))
		if runeCount >= maxSegmentRunes {
			flush()
		}
	}
	flush()
	return segments
}
