package asr

import "strings"

// baseVocabulary seeds the decoder with common Cantonese-specific
// characters the model otherwise renders as Mandarin homophones.
var baseVocabulary = []string{
	"嘅", "咗", "喺", "嚟", "啲", "嗰", "咁", "唔", "冇", "乜",
	"嘢", "睇", "佢", "哋", "咩", "啱", "攞", "俾", "瞓", "攰",
}

// BuildPrompt joins the fixed base vocabulary with caller-supplied
// custom terms (comma or whitespace separated) into the decoding
// prompt. Duplicates are dropped, order preserved.
func BuildPrompt(customVocabulary string) string {
	seen := make(map[string]bool)
	var terms []string
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}
	for _, term := range baseVocabulary {
		add(term)
	}
	for _, field := range strings.FieldsFunc(customVocabulary, func(r rune) bool {
		return r == ',' || r == '，' || r == ' ' || r == '\n' || r == '\t'
	}) {
		add(field)
	}
	return strings.Join(terms, " ")
}
