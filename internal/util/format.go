package util

import (
	"fmt"
	"strconv"
)

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	negative := false
	if n < 0 {
		negative = true
		s = s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if negative {
		return "-" + string(out)
	}
	return string(out)
}

// FormatBytes renders a byte count using binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatPercent renders part/total as a percentage with one decimal.
func FormatPercent(part, total int64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
