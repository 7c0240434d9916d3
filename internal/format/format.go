// Package format provides human-readable formatting helpers shared by the
// CLI and TUI presentation layers.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatBytes formats a byte count using binary units (KiB, MiB, GiB).
//
// Parameters:
//   - b: The number of bytes.
//
// Returns:
//   - string: A formatted string such as "1.5 MiB".
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatCount formats an integer with comma thousand separators for
// readability in counter displays.
//
// Parameters:
//   - n: The value to format.
//
// Returns:
//   - string: A formatted string such as "1,234,567".
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// FormatRate formats an operations-per-second rate in a compact form.
//
// Parameters:
//   - rate: Operations per second.
//
// Returns:
//   - string: A formatted string such as "1.2M ops/s".
func FormatRate(rate float64) string {
	switch {
	case rate >= 1e6:
		return fmt.Sprintf("%.1fM ops/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.1fK ops/s", rate/1e3)
	default:
		return fmt.Sprintf("%.0f ops/s", rate)
	}
}
