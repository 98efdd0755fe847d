package style

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
)

// LLMBackend is a local language model used for translating English
// phrases in context. Implementations must be safe for concurrent use.
type LLMBackend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MTBackend is a statistical machine-translation fallback. Its output
// is assumed to be Simplified script and is always normalized.
type MTBackend interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Config wires optional translation backends into an Engine. Both may
// be nil; the cascade then stops at the dictionary stage.
type Config struct {
	LLM LLMBackend
	MT  MTBackend
}

// Engine owns the transformation state for one processing run: the
// mapping tables, the script normalizer, and the translation cache.
// An Engine is safe for concurrent Transform calls.
type Engine struct {
	llm LLMBackend
	mt  MTBackend

	normalizer *Normalizer

	// Register and correction keys sorted by descending length so a
	// multi-character phrase is never shadowed by its substring.
	registerKeys   []string
	correctionKeys []string

	mu    sync.Mutex
	cache map[string]string
}

// NewEngine builds an Engine. A missing script normalizer is reported
// loudly but is not fatal: transformations that depend on it degrade
// to identity, and translation stages that require it are skipped.
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	e := &Engine{
		llm:   cfg.LLM,
		mt:    cfg.MT,
		cache: make(map[string]string),
	}
	norm, err := NewNormalizer()
	if err != nil {
		log.Printf("script normalizer unavailable, translation cascade limited to dictionary: %v", err)
	} else {
		e.normalizer = norm
	}
	e.registerKeys = sortedKeysByLength(registerMap)
	e.correctionKeys = sortedKeysByLength(corrections)
	return e
}

func sortedKeysByLength(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// NormalizerAvailable reports whether Simplified→Traditional
// conversion is active.
func (e *Engine) NormalizerAvailable() bool {
	return e.normalizer != nil
}

// normalize converts Simplified output to Traditional (Hong Kong
// variant). Identity when the normalizer is unavailable.
func (e *Engine) normalize(text string) string {
	if e.normalizer == nil {
		return text
	}
	return e.normalizer.Convert(text)
}

// Transform applies the selected transformations to one line of text.
// Order matters: corrections run first so later stages see clean
// input, English handling runs before register conversion so Chinese
// replacements also pick up register rewrites, numerals run last.
func (e *Engine) Transform(ctx context.Context, text string, opts Options) string {
	out := applyCorrections(text, e.correctionKeys)
	if opts.English != EnglishKeep {
		out = e.processEnglish(ctx, out, opts.English)
	}
	out = convertRegister(out, e.registerKeys, opts.Register)
	if opts.Profanity != ProfanityKeep {
		out = filterProfanity(out, opts.Profanity)
	}
	if opts.Numerals == NumeralsChinese {
		out = convertNumerals(out)
	}
	return out
}

// ProgressFunc reports per-batch progress as a completed count.
type ProgressFunc func(done, total int)

// TransformSegments transforms a merged segment list, preserving the
// raw text alongside the styled text. Long-line splitting happens
// after transformation so split points see the final character count.
func (e *Engine) TransformSegments(ctx context.Context, segments []subtitle.Segment, opts Options, onProgress ProgressFunc) []subtitle.StyledSegment {
	styled := make([]subtitle.StyledSegment, 0, len(segments))
	for i, seg := range segments {
		styled = append(styled, subtitle.StyledSegment{
			Span:    seg.Span,
			Text:    e.Transform(ctx, seg.Text, opts),
			RawText: seg.Text,
		})
		if onProgress != nil {
			onProgress(i+1, len(segments))
		}
	}
	if opts.SplitLongLines && opts.MaxLineChars > 0 {
		styled = splitLongSegments(styled, opts.MaxLineChars)
	}
	return styled
}

// CleanSegments repairs recognizer artifacts before styling: moves
// stranded sentence-final particles back to their sentence, strips
// trailing punctuation, and drops hallucinated repetitions.
func (e *Engine) CleanSegments(segments []subtitle.Segment) []subtitle.Segment {
	cleaned := repairParticles(segments)
	cleaned = dropHallucinations(cleaned)
	return cleaned
}
