// Package display formats durations and depths for human-facing output
// (the CLI, logs). Grounded on the original source's display_utils.rs
// and depth_utils.rs, corrected per spec.md §9: the source's leading-colon
// under-an-hour format, its AFTER_COMMA.pow(10) decimal-scale inversion,
// and its coarse integer-second ascent-time rounding are NOT reproduced
// here.
package display

import (
	"fmt"
	"math"
	"time"

	"github.com/divetools/thalmann/pressure"
)

// ShowDuration renders d as MM:SS.mmm for durations under an hour, or
// HHH:MM:SS at or above an hour.
func ShowDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	totalSecs := int64(d.Seconds())
	const secsPerHour = 3600
	const secsPerMin = 60

	if totalSecs >= secsPerHour {
		hours := totalSecs / secsPerHour
		mins := (totalSecs % secsPerHour) / secsPerMin
		secs := totalSecs % secsPerMin
		return fmt.Sprintf("%03d:%02d:%02d", hours, mins, secs)
	}

	mins := (totalSecs % secsPerHour) / secsPerMin
	secs := totalSecs % secsPerMin
	millis := d.Milliseconds() % 1000
	return fmt.Sprintf("%02d:%02d.%03d", mins, secs, millis)
}

// FormatF32 renders value with afterComma digits after the decimal point.
func FormatF32(value float64, afterComma int) string {
	scale := math.Pow(10, float64(afterComma))
	rounded := math.Round(value*scale) / scale
	return fmt.Sprintf("%.*f", afterComma, rounded)
}

// GetAscentTime returns how long a constant-rate ascent covering depth
// takes at the given rate (in msw per minute), performing the division
// in float64 throughout and only converting to a time.Duration at the
// end.
func GetAscentTime(depth pressure.Msw, rateMswPerMin float64) time.Duration {
	minutes := math.Abs(float64(depth)) / rateMswPerMin
	return time.Duration(minutes * float64(time.Minute))
}
