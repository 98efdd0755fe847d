package style

import (
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// splitLongSegments breaks segments whose text exceeds maxChars runes
// into equal-sized pieces with the time span divided proportionally
// to each piece's share of the characters.
func splitLongSegments(segments []subtitle.StyledSegment, maxChars int) []subtitle.StyledSegment {
	out := make([]subtitle.StyledSegment, 0, len(segments))
	for _, seg := range segments {
		runes := []rune(seg.Text)
		if len(runes) <= maxChars {
			out = append(out, seg)
			continue
		}
		pieces := (len(runes) + maxChars - 1) / maxChars
		perPiece := (len(runes) + pieces - 1) / pieces
		duration := seg.Span.Duration()
		cursor := seg.Span.Start
		for i := 0; i < len(runes); i += perPiece {
			end := i + perPiece
			if end > len(runes) {
				end = len(runes)
			}
			share := float64(end-i) / float64(len(runes))
			pieceEnd := cursor + duration*share
			if end == len(runes) {
				pieceEnd = seg.Span.End
			}
			out = append(out, subtitle.StyledSegment{
				Span:    subtitle.TimeSpan{Start: cursor, End: pieceEnd},
				Text:    string(runes[i:end]),
				RawText: seg.RawText,
			})
			cursor = pieceEnd
		}
	}
	return out
}
