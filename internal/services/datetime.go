package services

import (
	"strings"
	"time"

	"github.com/trailtrack/apiserver/types"
)

const (
	layoutDate          = "2006-01-02"
	layoutMinute        = "2006-01-02T15:04"
	layoutSecondsNaive  = "2006-01-02T15:04:05.999999999"
	layoutSecondsZoned  = "2006-01-02T15:04:05.999999999Z07:00"
	layoutMinuteZoned   = "2006-01-02T15:04Z07:00"
	layoutSecondsBasic  = "2006-01-02T15:04:05.999999999Z0700"
	layoutMinuteBasic   = "2006-01-02T15:04Z0700"
	datetimeLocalLength = len(layoutMinute)
)

// isoLayouts are tried in order for combined date-time values. Offsets
// may be written with or without a colon. Values without a zone are read
// as UTC.
var isoLayouts = []string{
	layoutSecondsZoned,
	layoutMinuteZoned,
	layoutSecondsBasic,
	layoutMinuteBasic,
	layoutSecondsNaive,
	layoutMinute,
	layoutDate,
}

// parseDueAt reads a task due time. The browser datetime-local shape
// (YYYY-MM-DDTHH:MM) is matched first, then any ISO 8601 date or
// date-time, with a trailing "Z" read as +00:00.
func parseDueAt(field, raw string) (time.Time, error) {
	value := normalizeISO(raw)
	if len(value) == datetimeLocalLength && strings.Contains(value, "T") {
		if t, err := time.Parse(layoutMinute, value); err == nil {
			return t.UTC(), nil
		}
	}
	if t, ok := parseISO(value); ok {
		return t, nil
	}
	return time.Time{}, &FieldFormatError{Field: field, Value: raw}
}

// parseCloseDate reads a lead's expected close date: an ISO 8601 date-time
// when the value contains a "T", a bare YYYY-MM-DD date otherwise.
func parseCloseDate(field, raw string) (time.Time, error) {
	if value := normalizeISO(raw); strings.Contains(value, "T") {
		if t, ok := parseISO(value); ok {
			return t, nil
		}
		return time.Time{}, &FieldFormatError{Field: field, Value: raw}
	}
	t, err := time.Parse(layoutDate, raw)
	if err != nil {
		return time.Time{}, &FieldFormatError{Field: field, Value: raw}
	}
	return t.UTC(), nil
}

// parseOccurredAt reads an activity timestamp as any ISO 8601 date or
// date-time.
func parseOccurredAt(field, raw string) (time.Time, error) {
	if t, ok := parseISO(normalizeISO(raw)); ok {
		return t, nil
	}
	return time.Time{}, &FieldFormatError{Field: field, Value: raw}
}

func parseISO(value string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// normalizeISO accepts a space between date and time and a trailing "Z".
func normalizeISO(value string) string {
	if len(value) > len(layoutDate) && value[len(layoutDate)] == ' ' {
		value = value[:len(layoutDate)] + "T" + value[len(layoutDate)+1:]
	}
	return normalizeZulu(value)
}

func normalizeZulu(value string) string {
	if strings.HasSuffix(value, "Z") {
		return strings.TrimSuffix(value, "Z") + "+00:00"
	}
	return value
}

// coerceTime converts a presence-tracked raw date field with parse.
// A JSON null or an empty string yields nil.
func coerceTime(field string, f types.Field[*string], parse func(field, raw string) (time.Time, error)) (*time.Time, error) {
	if f.Value == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*f.Value)
	if raw == "" {
		return nil, nil
	}
	t, err := parse(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
