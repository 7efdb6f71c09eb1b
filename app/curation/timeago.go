package curation

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerWeek   = 604800
)

// InvalidDate is what TimeAgo renders for a timestamp it cannot parse.
const InvalidDate = "Invalid Date"

// Formatter renders relative ages. The zero value uses the wall clock,
// the en-US date layout and time.Local.
type Formatter struct {
	Now        func() time.Time
	DateLayout string
	Location   *time.Location
}

// TimeAgo formats ts relative to the current time with the default Formatter.
func TimeAgo(ts string) string {
	return Formatter{}.TimeAgo(ts)
}

// TimeAgo returns "Ns ago", "Nm ago", "Nh ago" or "Nd ago" for timestamps less
// than a week old and an absolute date otherwise. Empty input yields "".
func (f Formatter) TimeAgo(ts string) string {
	if ts == "" {
		return ""
	}

	t, ok := ParseTimestamp(ts)
	if !ok {
		return InvalidDate
	}

	diff := int64(f.now().Sub(t) / time.Second)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < secondsPerMinute:
		return fmt.Sprintf("%ds ago", diff)
	case diff < secondsPerHour:
		return fmt.Sprintf("%dm ago", diff/secondsPerMinute)
	case diff < secondsPerDay:
		return fmt.Sprintf("%dh ago", diff/secondsPerHour)
	case diff < secondsPerWeek:
		return fmt.Sprintf("%dd ago", diff/secondsPerDay)
	default:
		return f.absolute(t)
	}
}

func (f Formatter) absolute(t time.Time) string {
	layout := f.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}

func (f Formatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}
