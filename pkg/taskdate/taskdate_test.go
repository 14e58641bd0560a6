package taskdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "ISO date", input: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "DD-MM-YYYY", input: "15-03-2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "ISO datetime", input: "2024-03-15T10:30:00", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDueDateInvalid(t *testing.T) {
	for _, input := range []string{"", "next tuesday", "2024/03/15", "15-13-2024"} {
		_, err := ParseDueDate(input)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", input)
	}
}

func TestParseSearchDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "plain date", input: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "datetime truncates to date", input: "2024-03-15T23:59:59", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "trailing Z accepted", input: "2024-03-15T10:00:00Z", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseSearchDateInvalid(t *testing.T) {
	_, err := ParseSearchDate("yesterday")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		day        time.Time
		wantMonday time.Time
		wantSunday time.Time
	}{
		{
			name:       "wednesday mid-week",
			day:        time.Date(2024, 3, 13, 15, 4, 5, 0, time.UTC),
			wantMonday: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "monday is its own start",
			day:        time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			wantMonday: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "sunday closes the week",
			day:        time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC),
			wantMonday: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday, sunday := WeekRange(tt.day)
			assert.True(t, monday.Equal(tt.wantMonday), "monday = %v, want %v", monday, tt.wantMonday)
			assert.True(t, sunday.Equal(tt.wantSunday), "sunday = %v, want %v", sunday, tt.wantSunday)
		})
	}
}
