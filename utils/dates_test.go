package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"date only", "2024-05-31", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"date time", "2024-05-31T14:00:00", time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC)},
		{"date time without seconds", "2024-05-31T14:00", time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC)},
		{"space separated", "2024-05-31 14:00:00", time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC)},
		{"with offset", "2024-05-31T11:00:00-03:00", time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC)},
		{"zulu", "2024-05-31T14:00:00Z", time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC)},
		{"surrounding spaces", " 2024-05-31 ", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISODate("data", tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseISODateRejectsGarbage(t *testing.T) {
	for _, value := range []string{"31/05/2024", "ontem", "2024-13-01", ""} {
		_, err := ParseISODate("data_inicio", value)
		require.Error(t, err, value)

		var dateErr *DateParseError
		require.True(t, errors.As(err, &dateErr))
		assert.Equal(t, "data_inicio", dateErr.Field)
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	r, err = ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *r.Start)
	assert.Equal(t, 23, r.End.Hour(), "date-only upper bound covers the whole day")
	assert.Equal(t, 31, r.End.Day())

	r, err = ParseDateRange("", "2024-01-31T12:00:00")
	require.NoError(t, err)
	assert.Nil(t, r.Start)
	assert.Equal(t, 12, r.End.Hour(), "explicit time is kept")

	_, err = ParseDateRange("2024-01-01", "fim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_fim")
}

func TestFormatBRDate(t *testing.T) {
	d := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "09/03/2024", FormatBRDate(&d))
	assert.Equal(t, "", FormatBRDate(nil))
	assert.Equal(t, "", FormatBRDate(&time.Time{}))
}

func TestPeriodLabel(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Período: 01/01/2024 a 31/01/2024", PeriodLabel(DateRange{Start: &start, End: &end}))
	assert.Equal(t, "A partir de: 01/01/2024", PeriodLabel(DateRange{Start: &start}))
	assert.Equal(t, "Até: 31/01/2024", PeriodLabel(DateRange{End: &end}))
	assert.Equal(t, "", PeriodLabel(DateRange{}))
}
