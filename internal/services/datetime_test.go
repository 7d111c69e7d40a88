package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/types"
)

func TestParseDueAt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "datetime-local", raw: "2024-03-01T14:30", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
		{name: "zulu", raw: "2024-03-01T14:30:00Z", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
		{name: "zulu fractional", raw: "2024-03-01T14:30:00.250Z", want: time.Date(2024, 3, 1, 14, 30, 0, 250_000_000, time.UTC)},
		{name: "offset", raw: "2024-03-01T16:30:00+02:00", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
		{name: "naive seconds", raw: "2024-03-01T14:30:15", want: time.Date(2024, 3, 1, 14, 30, 15, 0, time.UTC)},
		{name: "bare date", raw: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "space separator", raw: "2024-03-01 14:30:00", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
		{name: "space separator minutes", raw: "2024-03-01 14:30", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
		{name: "basic offset", raw: "2024-03-01T20:00:00+0530", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
		{name: "basic offset minutes", raw: "2024-03-01T09:30-0500", want: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDueAt("due_at", tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDueAt_Invalid(t *testing.T) {
	for _, raw := range []string{"not-a-date", "2024-13-01", "01/03/2024", "2024-03-01T25:00"} {
		_, err := parseDueAt("due_at", raw)
		var formatErr *FieldFormatError
		require.True(t, errors.As(err, &formatErr), raw)
		assert.Equal(t, "due_at", formatErr.Field)
		assert.Equal(t, raw, formatErr.Value)
	}

	_, err := parseDueAt("due_at", "not-a-date")
	assert.EqualError(t, err, "Invalid datetime format for due_at: not-a-date")
}

func TestParseCloseDate(t *testing.T) {
	got, err := parseCloseDate("expected_close_date", "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), got)

	got, err = parseCloseDate("expected_close_date", "2024-06-30T09:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC), got)

	got, err = parseCloseDate("expected_close_date", "2024-06-30T09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 9, 0, 0, 0, time.UTC), got)

	got, err = parseCloseDate("expected_close_date", "2024-06-30 09:00:00+0200")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 7, 0, 0, 0, time.UTC), got)

	_, err = parseCloseDate("expected_close_date", "June 30")
	assert.EqualError(t, err, "Invalid datetime format for expected_close_date: June 30")

	_, err = parseCloseDate("expected_close_date", "2024-06-30Tnoon")
	assert.EqualError(t, err, "Invalid datetime format for expected_close_date: 2024-06-30Tnoon")
}

func TestCoerceTime_NullAndEmptyClear(t *testing.T) {
	got, err := coerceTime("due_at", types.Field[*string]{Set: true}, parseDueAt)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := ""
	got, err = coerceTime("due_at", types.Some(&empty), parseDueAt)
	require.NoError(t, err)
	assert.Nil(t, got)

	raw := "2024-03-01"
	got, err = coerceTime("due_at", types.Some(&raw), parseDueAt)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
}

func TestParseOccurredAt_SpaceSeparatedWithOffset(t *testing.T) {
	got, err := parseOccurredAt("occurred_at", "2024-03-01 10:00:00-0300")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), got)

	_, err = parseOccurredAt("occurred_at", "2024-03-01  10:00")
	assert.EqualError(t, err, "Invalid datetime format for occurred_at: 2024-03-01  10:00")
}
