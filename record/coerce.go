package record

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Lenient coercion for the numeric and timestamp shapes seen on market
// pages. Failures never raise: counts fall back to zero, stats entries are
// omitted, timestamps come back as the zero time.

var countRe = regexp.MustCompile(`(\d[\d,.]*)\s*([kKmM]?)`)

// ParseCount extracts a non-negative integer from strings like
// "153 likes", "1,204", or "1.2k". Returns 0 when no number is found.
func ParseCount(s string) int {
	m := countRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	num := strings.ReplaceAll(m[1], ",", "")
	mult := 1.0
	switch strings.ToLower(m[2]) {
	case "k":
		mult = 1e3
	case "m":
		mult = 1e6
	default:
		// "1.204" with no suffix is a thousands-separated integer in
		// several locales; strip the dot rather than truncate.
		if strings.Contains(num, ".") {
			num = strings.ReplaceAll(num, ".", "")
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f * mult)
}

// ParseNumber parses a stat value such as "24.6%", "+14%", or "1,234.5".
// The second return is false when nothing numeric is present, in which
// case the caller omits the stat key entirely.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var relativeRe = regexp.MustCompile(`(?i)(\d+)\s*(second|minute|min|hour|hr|day|week|month)s?\s+ago`)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// ParseTimestamp normalizes an absolute or relative time expression to
// UTC. Relative expressions ("3 hours ago") are resolved against ref, the
// page's fetch time. The second return is false when the text cannot be
// resolved at all; the caller leaves post_date null.
func ParseTimestamp(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	if ref.IsZero() {
		return time.Time{}, false
	}
	switch strings.ToLower(s) {
	case "just now", "now":
		return ref.UTC(), true
	case "yesterday":
		return ref.AddDate(0, 0, -1).UTC(), true
	}
	if m := relativeRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		switch strings.ToLower(m[2]) {
		case "second":
			return ref.Add(-time.Duration(n) * time.Second).UTC(), true
		case "minute", "min":
			return ref.Add(-time.Duration(n) * time.Minute).UTC(), true
		case "hour", "hr":
			return ref.Add(-time.Duration(n) * time.Hour).UTC(), true
		case "day":
			return ref.AddDate(0, 0, -n).UTC(), true
		case "week":
			return ref.AddDate(0, 0, -7*n).UTC(), true
		case "month":
			return ref.AddDate(0, -n, 0).UTC(), true
		}
	}
	return time.Time{}, false
}
