package render

import (
	"strings"
	"time"
)

// NotApplicable is shown for empty or unparsable dates.
const NotApplicable = "N/A"

// DisplayLayout matches the en-US locale string the dashboard has always
// shown, e.g. "1/1/2025, 10:00:00 AM".
const DisplayLayout = "1/2/2006, 3:04:05 PM"

var inputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDateTime parses a datetime-local form value. Values without a zone are
// read in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateTime never fails: anything it cannot parse renders as N/A.
func FormatDateTime(s string, loc *time.Location) string {
	t, ok := ParseDateTime(s, loc)
	if !ok {
		return NotApplicable
	}
	return t.In(loc).Format(DisplayLayout)
}
