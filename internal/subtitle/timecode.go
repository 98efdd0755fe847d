package subtitle

import "fmt"

// Sub-second fields are truncated, not rounded. Rounding 3.2499 up
// would shift a cue boundary past the frame the editor shows, and
// downstream round-trip checks depend on the exact digits. The
// fraction is taken from the scaled total rather than from
// seconds-whole, so a value like 3.8 (stored as 3.79999…) still
// yields 800 and not 799.

// srtTimestamp renders seconds as HH:MM:SS,mmm.
func srtTimestamp(seconds float64) string {
	whole := int(seconds)
	millis := int(seconds*1000) - whole*1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", whole/3600, whole%3600/60, whole%60, millis)
}

// assTimestamp renders seconds as H:MM:SS.cc with an unpadded hour.
func assTimestamp(seconds float64) string {
	whole := int(seconds)
	centis := int(seconds*100) - whole*100
	return fmt.Sprintf("%d:%02d:%02d.%02d", whole/3600, whole%3600/60, whole%60, centis)
}
