package style

import "strings"

// filterProfanity softens or masks strong language. Mask replaces the
// match with one mask character per rune so line length stays
// roughly stable on screen.
func filterProfanity(text string, mode ProfanityMode) string {
	out := text
	for word, mild := range profanityMild {
		if !strings.Contains(out, word) {
			continue
		}
		replacement := mild
		if mode == ProfanityMask {
			replacement = strings.Repeat("＊", len([]rune(word)))
		}
		out = strings.ReplaceAll(out, word, replacement)
	}
	return out
}
