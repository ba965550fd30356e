package utils

import (
	"fmt"
	"strings"
	"time"
)

// BRDateLayout is the DD/MM/YYYY layout used in reports and exports
const BRDateLayout = "02/01/2006"

// BRDateTimeLayout adds the time of day to BRDateLayout
const BRDateTimeLayout = "02/01/2006 15:04:05"

// FilenameTimestampLayout is embedded in generated report filenames
const FilenameTimestampLayout = "20060102_150405"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateParseError represents a malformed date input
type DateParseError struct {
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date for %s: %q (expected ISO-8601, e.g. 2024-05-31 or 2024-05-31T14:00:00)", e.Field, e.Value)
}

// ParseISODate parses an ISO-8601 date or date-time. Values without a zone
// are taken as UTC. The result is always in UTC.
func ParseISODate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &DateParseError{Field: field, Value: value}
}

// IsDateOnly reports whether value carries no time-of-day component
func IsDateOnly(value string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	return err == nil
}

// DateRange is an inclusive creation-date window. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// ParseDateRange converts optional ISO-8601 bounds into a DateRange.
// A date-only upper bound covers that whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := ParseISODate("data_inicio", start)
		if err != nil {
			return r, err
		}
		r.Start = &t
	}
	if end != "" {
		t, err := ParseISODate("data_fim", end)
		if err != nil {
			return r, err
		}
		if IsDateOnly(end) {
			t = EndOfDay(t)
		}
		r.End = &t
	}
	return r, nil
}

// EndOfDay returns the last representable instant of t's calendar day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// FormatBRDate formats t as DD/MM/YYYY, or returns empty for nil
func FormatBRDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(BRDateLayout)
}

// PeriodLabel describes a date range the way report headers show it
func PeriodLabel(r DateRange) string {
	switch {
	case r.Start != nil && r.End != nil:
		return fmt.Sprintf("Período: %s a %s", r.Start.Format(BRDateLayout), r.End.Format(BRDateLayout))
	case r.Start != nil:
		return "A partir de: " + r.Start.Format(BRDateLayout)
	case r.End != nil:
		return "Até: " + r.End.Format(BRDateLayout)
	}
	return ""
}
