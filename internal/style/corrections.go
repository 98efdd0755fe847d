package style

import "regexp"

// Recognizers emit bracketed annotations for non-speech events; none
// of them belong in a subtitle line.
var bracketedAnnotation = regexp.MustCompile(`[\(（\[【][^\)）\]】]*[\)）\]】]`)

// applyCorrections strips non-speech annotations and fixes recurring
// homophone misrecognitions.
func applyCorrections(text string, keys []string) string {
	out := bracketedAnnotation.ReplaceAllString(text, "")
	return replaceLongestFirst(out, keys, corrections, nil)
}
