package utils

import "time"

const isoMillis = "2006-01-02T15:04:05.000Z"

// FormatISO formats t in UTC with millisecond precision, e.g. "2024-01-15T10:48:00.000Z".
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// Clock returns the current time. Tests replace it to get stable timestamps.
type Clock func() time.Time

// Now returns c() or time.Now when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
