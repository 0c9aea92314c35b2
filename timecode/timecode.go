// SPDX-License-Identifier: EPL-2.0

// Package timecode renders durations for display as "HH : MM : SS".
package timecode

import (
	"fmt"
	"time"
)

// Format floors d to whole seconds. Negative durations render as zero.
func Format(d time.Duration) string {
	secs := max(int64(d/time.Second), 0)

	return fmt.Sprintf("%02d : %02d : %02d", secs/3600, (secs%3600)/60, secs%60)
}

// Range is a time range as produced by the selection mapper.
type Range interface {
	Bounds() (start, end time.Duration)
}

// FormatRange renders both ends of r separated by " - ".
func FormatRange(r Range) string {
	start, end := r.Bounds()

	return Format(start) + " - " + Format(end)
}
