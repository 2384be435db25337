package alert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the layout the generator writes.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	TimestampLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var spanPattern = regexp.MustCompile(`(\d+)([dhms])`)

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	// Unix seconds
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(ts, 0).UTC(), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

// ParseSpan accepts Go durations plus day-based forms such as 7d or 1d12h.
func ParseSpan(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty span")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	matches := spanPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid span format: %s", s)
	}

	var total time.Duration
	consumed := ""
	for _, m := range matches {
		val, _ := strconv.ParseInt(m[1], 10, 64)
		switch m[2] {
		case "d":
			total += time.Duration(val) * 24 * time.Hour
		case "h":
			total += time.Duration(val) * time.Hour
		case "m":
			total += time.Duration(val) * time.Minute
		case "s":
			total += time.Duration(val) * time.Second
		}
		consumed += m[0]
	}
	if consumed != s {
		return 0, fmt.Errorf("invalid span format: %s", s)
	}
	return total, nil
}

// TimeSpan returns the earliest and latest parseable timestamps.
// ok is false when no timestamp parses.
func (d *Dataset) TimeSpan() (first, last time.Time, ok bool) {
	for i := range d.Alerts {
		t, parsed := d.Alerts[i].Time()
		if !parsed {
			continue
		}
		if !ok || t.Before(first) {
			first = t
		}
		if !ok || t.After(last) {
			last = t
		}
		ok = true
	}
	return first, last, ok
}
