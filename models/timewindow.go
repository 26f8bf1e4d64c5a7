package models

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-day format used for every stored date.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format accepted from clients.
	ClockLayout = "15:04"
	// MinutesPerDay bounds a TimeWindow; windows never cross midnight.
	MinutesPerDay = 24 * 60
)

// TimeWindow is a same-day wall-clock interval [Start, End).
type TimeWindow struct {
	Date  string `bson:"date" json:"date"`   // e.g., "2024-06-01"
	Start int    `bson:"start" json:"start"` // minutes from midnight (e.g., 840 for 2:00 PM)
	End   int    `bson:"end" json:"end"`     // minutes from midnight, exclusive
}

// NewTimeWindow builds a window from a date and two "HH:MM" clocks.
func NewTimeWindow(date, start, end string) (TimeWindow, error) {
	if _, err := ParseDate(date); err != nil {
		return TimeWindow{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Date: date, Start: s, End: e}, nil
}

// Duration returns the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w.End-w.Start) * time.Minute
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s %s-%s", w.Date, FormatClock(w.Start), FormatClock(w.End))
}

// ParseDate parses a "YYYY-MM-DD" calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
