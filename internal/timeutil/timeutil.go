// Package timeutil holds the business-calendar helpers shared by the
// dashboard, the financial reports and the schedulers.
package timeutil

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTime = errors.New("invalid_time")

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse accepts RFC3339 timestamps or a bare date. Values without an offset
// are read in loc.
func Parse(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidTime
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// Range is a half-open [Start, End) interval in UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Day returns the business day containing now.
func Day(now time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Range{Start: start.UTC(), End: start.AddDate(0, 0, 1).UTC()}
}

// Month returns the business month containing now.
func Month(now time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Range{Start: start.UTC(), End: start.AddDate(0, 1, 0).UTC()}
}

// OptionalRange parses a start/end query pair. Both must be present for the
// filter to apply; a bare date for end covers that whole day.
func OptionalRange(start, end string, loc *time.Location) (*Range, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, nil
	}
	from, err := Parse(start, loc)
	if err != nil {
		return nil, err
	}
	to, err := Parse(end, loc)
	if err != nil {
		return nil, err
	}
	if len(end) == len("2006-01-02") {
		to = to.AddDate(0, 0, 1)
	}
	if to.Before(from) {
		return nil, ErrInvalidTime
	}
	return &Range{Start: from, End: to}, nil
}
