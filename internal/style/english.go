package style

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// englishSpan matches a run of English words including internal
// spaces, hyphens and apostrophes, so "thank you" is one phrase.
var englishSpan = regexp.MustCompile(`[A-Za-z][A-Za-z0-9']*(?:[ \-'][A-Za-z][A-Za-z0-9']*)*`)

// processEnglish rewrites embedded English spans. Translate replaces
// the span with Chinese; annotate keeps the span and appends a
// parenthetical gloss. A phrase the cascade cannot translate is left
// untouched rather than guessed at.
func (e *Engine) processEnglish(ctx context.Context, text string, mode EnglishMode) string {
	return englishSpan.ReplaceAllStringFunc(text, func(phrase string) string {
		translation, ok := e.translatePhrase(ctx, phrase)
		if !ok {
			return phrase
		}
		if mode == EnglishAnnotate {
			return phrase + "（" + translation + "）"
		}
		return translation
	})
}

// llmPromptPrefix constrains the model to a bare Traditional-Chinese
// translation with no commentary.
const llmPromptPrefix = "將以下英文詞語翻譯成繁體中文（香港用字），只輸出譯文，不要解釋：\n"

// translatePhrase runs the translation cascade: cache, dictionary,
// local LLM, then statistical MT. The first stage to produce a usable
// answer wins and the result is memoized for the rest of the run.
// Declining to translate is the normal outcome for unknown phrases,
// not an error.
func (e *Engine) translatePhrase(ctx context.Context, phrase string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(phrase))
	if key == "" {
		return "", false
	}

	e.mu.Lock()
	cached, hit := e.cache[key]
	e.mu.Unlock()
	if hit {
		return cached, true
	}

	if translation, ok := e.lookupDictionary(key); ok {
		return e.accept(key, translation), true
	}
	if translation, ok := e.translateWithLLM(ctx, phrase); ok {
		return e.accept(key, translation), true
	}
	if translation, ok := e.translateWithMT(ctx, phrase); ok {
		return e.accept(key, translation), true
	}
	return "", false
}

func (e *Engine) accept(key, translation string) string {
	e.mu.Lock()
	e.cache[key] = translation
	e.mu.Unlock()
	return translation
}

// lookupDictionary tries the exact phrase, then word-by-word when
// every word of a multi-word phrase is known.
func (e *Engine) lookupDictionary(key string) (string, bool) {
	if translation, ok := englishDictionary[key]; ok {
		return translation, true
	}
	words := strings.Fields(key)
	if len(words) < 2 {
		return "", false
	}
	var parts []string
	for _, word := range words {
		translation, ok := englishDictionary[word]
		if !ok {
			return "", false
		}
		parts = append(parts, translation)
	}
	return strings.Join(parts, ""), true
}

// translateWithLLM asks the local model. The model may emit
// Simplified characters despite the prompt, so its output must pass
// through the script normalizer before acceptance; with no
// normalizer the stage is skipped entirely.
func (e *Engine) translateWithLLM(ctx context.Context, phrase string) (string, bool) {
	if e.llm == nil || e.normalizer == nil {
		return "", false
	}
	raw, err := e.llm.Generate(ctx, llmPromptPrefix+phrase)
	if err != nil {
		log.Printf("llm translation of %q failed: %v", phrase, err)
		return "", false
	}
	cleaned := cleanModelOutput(raw)
	if cleaned == "" || strings.EqualFold(cleaned, phrase) {
		return "", false
	}
	return e.normalize(cleaned), true
}

// translateWithMT is the last resort. MT output is natively
// Simplified and is never accepted without normalization.
func (e *Engine) translateWithMT(ctx context.Context, phrase string) (string, bool) {
	if e.mt == nil || e.normalizer == nil {
		return "", false
	}
	raw, err := e.mt.Translate(ctx, phrase)
	if err != nil {
		log.Printf("mt translation of %q failed: %v", phrase, err)
		return "", false
	}
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", false
	}
	return e.normalize(cleaned), true
}

// cleanModelOutput strips chat framing the model sometimes wraps
// around the translation.
func cleanModelOutput(raw string) string {
	out := strings.TrimSpace(raw)
	for _, prefix := range []string{"譯文：", "翻譯：", "中文：", "答案："} {
		out = strings.TrimPrefix(out, prefix)
	}
	out = strings.Trim(out, "「」\"' \n")
	if idx := strings.IndexByte(out, '\n'); idx >= 0 {
		out = out[:idx]
	}
	return strings.TrimSpace(out)
}
