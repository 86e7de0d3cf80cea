// Package dateutils parses the slash-separated dates found in card statements
// and computes month ranges for ledger queries.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutSlash = "2006/1/2"
	MonthLayout     = "2006-01"
)

// ParseSlashDate parses "YYYY/M/D" (zero padding optional) into a UTC date.
// The value must have exactly three components and form a real calendar date,
// so "2024/02/30" and "2024/1" are rejected.
func ParseSlashDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected YYYY/MM/DD, got %q", raw)
	}
	if len(strings.TrimSpace(parts[0])) != 4 {
		return time.Time{}, fmt.Errorf("year must have four digits in %q", raw)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	t, err := time.Parse(DateLayoutSlash, strings.Join(parts, "/"))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// MonthRange returns the half-open range [first day, first day of next month)
// for a "YYYY-MM" month.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}
