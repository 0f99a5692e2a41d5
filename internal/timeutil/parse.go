package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ParseSinceMillis parses a --since parameter into an epoch millisecond
// timestamp, the unit the log vault uses for event times.
//
// Accepts multiple formats:
//   - Relative time: "1h", "30m", "2d", "45s", "1w"
//   - RFC3339: "2006-01-02T15:04:05Z" or "2006-01-02T15:04:05-07:00"
//   - RFC3339Nano: "2006-01-02T15:04:05.999999999Z"
//   - DateTime: "2006-01-02 15:04:05"
//   - DateTime with millis: "2006-01-02 15:04:05.999"
//   - DateOnly: "2006-01-02"
//
// Formats without timezone info are interpreted in the local timezone.
func ParseSinceMillis(sinceStr string) (int64, error) {
	formats := []struct {
		layout   string
		useLocal bool // Whether to interpret as local time if no timezone
	}{
		{time.RFC3339Nano, false},
		{time.RFC3339, false},
		{time.DateTime, true},
		{"2006-01-02 15:04:05.999", true},
		{"2006-01-02 15:04:05.999999", true},
		{time.DateOnly, true},
	}

	for _, f := range formats {
		t, err := time.Parse(f.layout, sinceStr)
		if err != nil {
			continue
		}
		if f.useLocal {
			t, err = time.ParseInLocation(f.layout, sinceStr, time.Local)
			if err != nil {
				continue
			}
		}
		return t.UnixMilli(), nil
	}

	// Relative time format (e.g., "1h", "30m", "2d")
	relativeTimePattern := regexp.MustCompile(`^(\d+)([smhdw])$`)
	match := relativeTimePattern.FindStringSubmatch(sinceStr)

	if match == nil {
		return 0, fmt.Errorf("invalid --since format: '%s'. Use relative time ('w|d|h|m|s') or absolute (e.g., '2006-01-02 15:04:05', '2006-01-02T15:04:05Z', '2006-01-02')", sinceStr)
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in --since: %w", err)
	}

	var duration time.Duration
	switch match[2] {
	case "s":
		duration = time.Duration(amount) * time.Second
	case "m":
		duration = time.Duration(amount) * time.Minute
	case "h":
		duration = time.Duration(amount) * time.Hour
	case "d":
		duration = time.Duration(amount) * 24 * time.Hour
	case "w":
		duration = time.Duration(amount) * 7 * 24 * time.Hour
	}

	return time.Now().Add(-duration).UnixMilli(), nil
}
