// Package clock fixes the timestamp format used across all stored records.
package clock

import "time"

// Format is RFC3339 with fixed-width microseconds. Stored timestamps are
// compared as strings when sorting feeds, which is only correct while
// lexicographic order matches chronological order, so the fractional part
// must never vary in width.
const Format = "2006-01-02T15:04:05.000000Z"

// Now returns the current UTC time in the canonical stored format.
func Now() string {
	return time.Now().UTC().Format(Format)
}

// FromTime formats an arbitrary time in the canonical stored format.
func FromTime(t time.Time) string {
	return t.UTC().Format(Format)
}

// Parse reads a stored timestamp back.
func Parse(s string) (time.Time, error) {
	return time.Parse(Format, s)
}
