package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TimestampLayout is the textual form of timestamps crossing the public boundary.
	TimestampLayout = "2006-01-02 15:04:05.999999"

	timestampLayoutSeconds = "2006-01-02 15:04:05"
)

// NormalizeTimestamp brings a timestamp to the precision and location it is stored with.
// Borrow timestamps are part of row keys, so every write and lookup must use the normalized value.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// FormatTimestamp renders t as YYYY-MM-DD HH:MM:SS[.ffffff] in UTC.
func FormatTimestamp(t time.Time) string {
	return NormalizeTimestamp(t).Format(TimestampLayout)
}

// ParseTimestamp parses YYYY-MM-DD HH:MM:SS.ffffff and falls back to YYYY-MM-DD HH:MM:SS.
// The input is interpreted as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	for _, layout := range []string{TimestampLayout, timestampLayoutSeconds} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return NormalizeTimestamp(t), nil
		}
	}

	return time.Time{}, errors.Join(ErrInvalidIdentifier, fmt.Errorf("malformed timestamp %q", raw))
}
