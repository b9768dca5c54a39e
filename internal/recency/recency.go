package recency

import (
	"strconv"
	"strings"
	"time"
)

// Normalize resolves a provider's free-text posted-at string ("3 days ago",
// "just posted") against ref. ok is false when the text matches no known
// pattern; the caller decides what an unknown date means.
//
// Weeks count as 7 days and months as 30 — an approximation, not
// calendar-accurate arithmetic.
func Normalize(raw string, ref time.Time) (t time.Time, ok bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return time.Time{}, false
	}

	switch text {
	case "today", "just posted", "posted today", "a few hours ago", "few hours ago":
		return ref, true
	}

	if strings.Contains(text, "hour") || strings.Contains(text, "minute") {
		return ref, true
	}

	n, hasN := leadingInt(text)

	switch {
	case strings.Contains(text, "day"):
		if !hasN {
			return time.Time{}, false
		}
		return ref.AddDate(0, 0, -n), true
	case strings.Contains(text, "week"):
		if !hasN {
			return time.Time{}, false
		}
		return ref.AddDate(0, 0, -7*n), true
	case strings.Contains(text, "month"):
		if !hasN {
			return time.Time{}, false
		}
		return ref.AddDate(0, 0, -30*n), true
	}

	return time.Time{}, false
}

func leadingInt(text string) (int, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
