package model

import "time"

// TimestampLayout is the storage form of every timestamp in the database:
// millisecond precision, zero-padded, always UTC with a literal "Z".
//
// Record ordering relies on plain string comparison of these values
// (List sorts lexically, the by-createdAt indexes are byte-ordered), which is
// only correct because this layout is fixed-width and zero-padded.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the sortable storage form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp. It also accepts plain
// RFC 3339 values, which older records may carry.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
