package conflict

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock converts a 24-hour "HH:MM" string to minutes since midnight.
// Malformed input reports ok=false; callers treat the record as unmatchable
// rather than failing the whole detection pass.
func parseClock(raw string) (int, bool) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// formatClock renders minutes since midnight back to "HH:MM".
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock converts a 24-hour "HH:MM" string to minutes since midnight.
func ParseClock(raw string) (int, bool) {
	return parseClock(raw)
}

// NormalizeClock accepts "HH:MM" or 12-hour "h:mm AM/PM" input and returns
// the canonical 24-hour form. Display data and user payloads often carry the
// 12-hour style.
func NormalizeClock(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	upper := strings.ToUpper(s)

	meridiem := ""
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		s = strings.TrimSpace(s[:len(s)-2])
	}

	minutes, ok := parseClock(s)
	if !ok {
		return "", false
	}
	if meridiem != "" {
		hours := minutes / 60
		if hours < 1 || hours > 12 {
			return "", false
		}
		if meridiem == "PM" && hours != 12 {
			minutes += 12 * 60
		}
		if meridiem == "AM" && hours == 12 {
			minutes -= 12 * 60
		}
	}
	return formatClock(minutes), true
}
