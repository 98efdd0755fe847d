// Package style transforms raw Cantonese transcription text into
// publishable subtitle text: register conversion, embedded-English
// handling, numeral rewriting, and mandatory Traditional-script
// normalization of anything produced by a translation model.
package style

// Register selects the formality level of the output text.
type Register string

const (
	// RegisterColloquial keeps the spoken Cantonese wording as-is.
	RegisterColloquial Register = "colloquial"
	// RegisterSemiFormal rewrites particles to written Chinese but
	// keeps characteristic Cantonese vocabulary.
	RegisterSemiFormal Register = "semi"
	// RegisterFormal rewrites all mapped vernacular words to
	// standard written Chinese.
	RegisterFormal Register = "written"
)

// EnglishMode controls what happens to embedded English spans.
type EnglishMode string

const (
	EnglishKeep      EnglishMode = "keep"
	EnglishTranslate EnglishMode = "translate"
	EnglishAnnotate  EnglishMode = "annotate"
)

// NumeralFormat controls rendering of Arabic digit runs.
type NumeralFormat string

const (
	NumeralsArabic  NumeralFormat = "arabic"
	NumeralsChinese NumeralFormat = "chinese"
)

// ProfanityMode controls handling of strong language.
type ProfanityMode string

const (
	ProfanityKeep ProfanityMode = "keep"
	ProfanityMask ProfanityMode = "mask"
	ProfanityMild ProfanityMode = "mild"
)

// Options selects the transformations applied to each segment.
type Options struct {
	Register  Register      `json:"register"`
	English   EnglishMode   `json:"english"`
	Numerals  NumeralFormat `json:"numerals"`
	Profanity ProfanityMode `json:"profanity"`

	// SplitLongLines breaks segments whose text exceeds MaxLineChars
	// into multiple time-proportional segments.
	SplitLongLines bool `json:"split_long_lines"`
	MaxLineChars   int  `json:"max_line_chars"`
}

// DefaultOptions returns the conservative defaults: keep the spoken
// register, keep English, keep Arabic numerals.
func DefaultOptions() Options {
	return Options{
		Register:     RegisterColloquial,
		English:      EnglishKeep,
		Numerals:     NumeralsArabic,
		Profanity:    ProfanityKeep,
		MaxLineChars: 30,
	}
}
