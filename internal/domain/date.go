package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf strips the clock from t, keeping the calendar day t shows in its own
// location, and returns that day at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the calendar day of now as seen from loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// AddDays shifts a calendar date by n days.
func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

// ParseDate parses a required YYYY-MM-DD value.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, Invalid(field, "required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// ParseOptionalDate parses a YYYY-MM-DD value; blank input yields nil.
func ParseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a calendar date, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// Window is an inclusive calendar range. A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	d = DateOf(d)
	if w.From != nil && d.Before(DateOf(*w.From)) {
		return false
	}
	if w.To != nil && d.After(DateOf(*w.To)) {
		return false
	}
	return true
}

// Until is the open-ended window of every date up to and including to.
func Until(to time.Time) Window {
	return Window{To: &to}
}

// Between is the window [from, to].
func Between(from, to time.Time) Window {
	return Window{From: &from, To: &to}
}

// Before is every date strictly earlier than d.
func Before(d time.Time) Window {
	return Until(AddDays(d, -1))
}
