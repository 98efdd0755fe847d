package style

import (
	"strings"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// repairParticles fixes a recognizer-boundary artifact: an utterance
// is cut at a voice gap and its sentence-final particle lands at the
// head of the next segment. Leading particles are moved back to the
// tail of the previous segment. Segments emptied by the move are
// dropped. Trailing full-stop punctuation is stripped everywhere; it
// reads as clutter on screen.
func repairParticles(segments []subtitle.Segment) []subtitle.Segment {
	out := make([]subtitle.Segment, 0, len(segments))
	for _, seg := range segments {
		text := seg.Text
		if len(out) > 0 {
			moved, rest := splitLeadingParticles(text)
			if moved != "" {
				out[len(out)-1].Text += moved
				text = rest
			}
		}
		text = strings.TrimRight(strings.TrimSpace(text), "。，、 ")
		if text == "" {
			continue
		}
		seg.Text = text
		out = append(out, seg)
	}
	return out
}

// splitLeadingParticles peels sentence-final particles off the head
// of text.
func splitLeadingParticles(text string) (moved, rest string) {
	runes := []rune(strings.TrimSpace(text))
	i := 0
	for i < len(runes) && sentenceFinalParticles[runes[i]] {
		i++
	}
	return string(runes[:i]), string(runes[i:])
}
