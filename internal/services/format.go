package services

import (
	"fmt"
	"strings"
)

// FormatCountdown renders seconds as "-1d 2h 3m 4s". Zero day, hour and
// minute parts are omitted; seconds are always shown.
func FormatCountdown(seconds int64) string {
	sign, abs := splitSign(seconds)
	d, h, m, s := abs/86400, (abs%86400)/3600, (abs%3600)/60, abs%60

	parts := make([]string, 0, 4)
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", s))

	return sign + strings.Join(parts, " ")
}

// FormatCompact renders seconds as "-1d 2h 3m" with every part shown.
func FormatCompact(seconds int64) string {
	sign, abs := splitSign(seconds)
	return fmt.Sprintf("%s%dd %dh %dm", sign, abs/86400, (abs%86400)/3600, (abs%3600)/60)
}

func splitSign(seconds int64) (string, int64) {
	if seconds < 0 {
		return "-", -seconds
	}
	return "", seconds
}
