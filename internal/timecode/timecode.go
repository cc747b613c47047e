// Package timecode converts between textual timestamps and seconds.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"anemone/internal/services"
)

// Parse converts "H:MM:SS.sss", "MM:SS" or plain seconds into seconds. The
// rightmost field carries seconds (fractions allowed) and each field to its
// left is worth sixty times the next.
func Parse(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, services.Wrap(services.ErrTimestamp, "timecode", "parse", "empty timestamp", nil)
	}
	fields := strings.Split(value, ":")
	total := 0.0
	multiplier := 1.0
	for i := len(fields) - 1; i >= 0; i-- {
		field := strings.TrimSpace(fields[i])
		parsed, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
			return 0, services.Wrap(services.ErrTimestamp, "timecode", "parse",
				fmt.Sprintf("invalid timestamp %q", value), err)
		}
		total += parsed * multiplier
		multiplier *= 60
	}
	return total, nil
}

// Format renders seconds as "H:MM:SS.sss", truncating (not rounding) to
// millisecond precision.
func Format(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	millis := int64(math.Floor(seconds*1000 + 1e-6))
	hours := millis / 3_600_000
	minutes := millis / 60_000 % 60
	secs := millis / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, secs, millis%1000)
}

// Seconds renders a plain seconds value with millisecond precision, as used
// in SMIL 1.0 "npt=" clip attributes and duration metadata.
func Seconds(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	millis := int64(math.Floor(seconds*1000 + 1e-6))
	return fmt.Sprintf("%d.%03d", millis/1000, millis%1000)
}
