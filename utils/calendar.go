package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the stored form of a calendar day. It sorts chronologically as a string.
const DateLayout = "2006-01-02"

// Weekdays are offered to the provider in Monday-first order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// FormatDate drops the time component.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// AddDays shifts a stored date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// mondayIndex maps time.Weekday onto Monday=0 ... Sunday=6.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekWindow returns the Monday and Sunday bounding the week that contains date.
func WeekWindow(date string) (string, string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	start := t.AddDate(0, 0, -mondayIndex(t.Weekday()))
	return FormatDate(start), FormatDate(start.AddDate(0, 0, 6)), nil
}

// NextWeekday returns the date of the next occurrence of weekday, today included.
func NextWeekday(now time.Time, weekday string) (string, error) {
	for i, name := range Weekdays {
		if strings.EqualFold(name, strings.TrimSpace(weekday)) {
			offset := (i - mondayIndex(now.Weekday()) + 7) % 7
			return FormatDate(now.AddDate(0, 0, offset)), nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", weekday)
}

// DayLabel renders a date the way it is offered in the day keyboard, e.g. "Monday (2025-05-05)".
func DayLabel(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", t.Weekday(), date)
}

// ParseDayLabel accepts either a full day label or a bare date and returns the date.
func ParseDayLabel(text string) string {
	text = strings.TrimSpace(text)
	if open := strings.LastIndex(text, "("); open >= 0 {
		text = strings.TrimSuffix(text[open+1:], ")")
	}
	return strings.TrimSpace(text)
}

// ParseClock parses "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
