package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes renders a byte count with base-1024 units, e.g. "1.5 MB".
// Negative precision is clamped to zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}
	if precision < 0 {
		precision = 0
	}

	size := float64(n)
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[idx]
}

// ParseBytes converts a size string such as "50MB" or "512 kb" into a byte
// count. A bare number is treated as bytes; unit matching is
// case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	cut := len(s)
	for cut > 0 {
		c := s[cut-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		cut--
	}

	number := strings.TrimSpace(s[:cut])
	unit := strings.ToUpper(strings.TrimSpace(s[cut:]))

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	if unit == "" {
		return int64(value), nil
	}
	for idx, u := range units {
		if u == unit {
			for i := 0; i < idx; i++ {
				value *= 1024
			}
			return int64(value), nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit: %q", unit)
}
