// Package timecode formats output-time offsets for the text artifacts.
package timecode

import (
	"fmt"
	"math"
)

// Format renders a second offset as HH:MM:SS, truncating fractional seconds.
// Negative offsets clamp to zero.
func Format(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
