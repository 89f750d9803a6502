package playback

import (
	"fmt"
	"math"
)

// FormatClock renders a position in seconds as minutes:seconds with
// zero-padded seconds, e.g. 75.4 → "1:15". Unknown or invalid positions
// render as "0:00".
func FormatClock(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	whole := int(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
