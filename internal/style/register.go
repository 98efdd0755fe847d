package style

import (
	"strings"
	"unicode/utf8"
)

// replaceLongestFirst rewrites text in a single left-to-right pass.
// keys must be sorted by descending length; at each position the
// first (longest) key that matches wins and the scan continues after
// the original match, so replacements are never re-matched.
func replaceLongestFirst(text string, keys []string, table map[string]string, skip func(key string) bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		matched := false
		for _, key := range keys {
			if skip != nil && skip(key) {
				continue
			}
			if strings.HasPrefix(text[i:], key) {
				b.WriteString(table[key])
				i += len(key)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			b.WriteString(text[i : i+size])
			i += size
		}
	}
	return b.String()
}

// convertRegister rewrites vernacular Cantonese according to the
// selected register. Colloquial is identity; semi-formal applies the
// table but preserves the characteristic Cantonese keep-words.
func convertRegister(text string, keys []string, register Register) string {
	switch register {
	case RegisterSemiFormal:
		return replaceLongestFirst(text, keys, registerMap, func(key string) bool {
			return semiKeepWords[key]
		})
	case RegisterFormal:
		return replaceLongestFirst(text, keys, registerMap, nil)
	default:
		return text
	}
}
