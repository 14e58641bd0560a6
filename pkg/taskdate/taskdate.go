// Package taskdate holds the due-date parsing and calendar-window rules
// shared by the task create and search endpoints.
package taskdate

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned for due-date values in no accepted format.
var ErrInvalidDate = errors.New("invalid date format")

// Keyword values accepted by the due_date search filter.
const (
	KeywordToday    = "Today"
	KeywordThisWeek = "This week"
	KeywordOverdue  = "Overdue"
)

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate parses a due date from a create payload. ISO forms are tried
// first, then DD-MM-YYYY.
func ParseDueDate(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseSearchDate parses an explicit due_date filter value. A trailing "Z"
// is accepted; only the date component matters to the comparison.
func ParseSearchDate(s string) (time.Time, error) {
	v := strings.TrimSuffix(s, "Z")
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// WeekRange returns the Monday and Sunday of the week containing day.
func WeekRange(day time.Time) (time.Time, time.Time) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(d.Weekday())
	if offset == 0 {
		offset = 7 // Sunday belongs to the week that started the previous Monday
	}
	monday := d.AddDate(0, 0, -(offset - 1))
	return monday, monday.AddDate(0, 0, 6)
}
