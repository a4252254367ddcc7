// Package datetime converts stored hearing dates and times to display strings
// and back. All calendar fields are read in UTC so that values close to
// midnight never shift to a neighbouring day in the server's local zone.
//
// A hearing time is not a real instant: only hour and minute carry meaning and
// they are stored on a fixed reference day (1970-01-01 UTC).
package datetime

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout    = "02/01/2006"
	clockLayout   = "15:04"
	isoDateLayout = "2006-01-02"
	clockSuffix   = " hs"
)

// ReferenceDay is the day every stored hearing time is anchored to.
var ReferenceDay = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// FormatDate renders t as DD/MM/YYYY using its UTC calendar fields.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// FormatTime renders t as "HH:MM hs" using its UTC clock fields.
func FormatTime(t time.Time) string {
	return t.UTC().Format(clockLayout) + clockSuffix
}

// FormatISODate renders t as YYYY-MM-DD, the form accepted by ParseDate.
func FormatISODate(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}

// NormalizeDate keeps only the UTC calendar date of t, at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeClock moves the UTC hour and minute of t onto ReferenceDay.
func NormalizeClock(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(ReferenceDay.Year(), ReferenceDay.Month(), ReferenceDay.Day(), u.Hour(), u.Minute(), 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the UTC
// calendar date at midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(isoDateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return NormalizeDate(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
}

// ParseClock accepts HH:MM, HH:MM:SS or an RFC 3339 timestamp (its date part
// is discarded) and returns the time anchored on ReferenceDay.
func ParseClock(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{clockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return NormalizeClock(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return NormalizeClock(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: expected HH:MM", raw)
}
