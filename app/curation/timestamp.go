package curation

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp parses the loosely formatted timestamps upstream APIs emit
// ("2024-01-05", "2024-01-05 10:00:00", RFC 3339, RFC 1123, ...). Zone-less
// values are read as UTC. The boolean is false for empty or unparsable input.
func ParseTimestamp(ts string) (t time.Time, ok bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}

	// dateparse panics on a handful of malformed inputs
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseAny(ts)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// createdAt returns the article's creation instant. Unparsable timestamps rank
// as the zero instant, older than any real date.
func createdAt(a Article) time.Time {
	t, _ := ParseTimestamp(a.CreatedAt)
	return t
}
