package style

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

var (
	numeralDigits = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	numeralUnits  = []string{"", "十", "百", "千"}
)

// Digit runs longer than this stay Arabic: phone numbers and IDs read
// worse as numeral words than as digits.
const maxNumeralDigits = 8

// convertNumerals rewrites every Arabic digit run as Chinese numeral
// words. Runs the whole run as one integer, not digit-by-digit.
// Already-converted text contains no ASCII digits, so the conversion
// is idempotent.
func convertNumerals(text string) string {
	return digitRun.ReplaceAllStringFunc(text, chineseNumeral)
}

// chineseNumeral converts a digit string with place-value unit names.
// The leading "one-ten" is always contracted: 15 is 十五, never 一十五.
func chineseNumeral(digits string) string {
	if len(digits) > maxNumeralDigits {
		return digits
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	if n == 0 {
		return "零"
	}

	high, low := n/10000, n%10000
	var b strings.Builder
	if high > 0 {
		b.WriteString(fourDigits(high))
		b.WriteString("萬")
		if low > 0 && low < 1000 {
			b.WriteString("零")
		}
	}
	if low > 0 {
		b.WriteString(fourDigits(low))
	}

	out := b.String()
	if strings.HasPrefix(out, "一十") {
		out = strings.TrimPrefix(out, "一")
	}
	return out
}

// fourDigits renders 1..9999 with interior zeros collapsed to a
// single 零 (105 reads 一百零五, 1005 reads 一千零五).
func fourDigits(n int) string {
	var b strings.Builder
	pendingZero := false
	started := false
	for pos := 3; pos >= 0; pos-- {
		unit := 1
		for i := 0; i < pos; i++ {
			unit *= 10
		}
		d := n / unit % 10
		if d == 0 {
			if started {
				pendingZero = true
			}
			continue
		}
		if pendingZero {
			b.WriteString("零")
			pendingZero = false
		}
		b.WriteString(numeralDigits[d])
		b.WriteString(numeralUnits[pos])
		started = true
	}
	return b.String()
}
