// Package expiry turns end dates into traffic-light statuses and folds a
// group of them into one summary.
package expiry

import (
	"time"

	"insurance-tracker/internal/domain"
)

// DefaultHorizonDays is how far ahead an end date counts as expiring soon.
const DefaultHorizonDays = 30

type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
	// Gray is only produced for an empty group.
	Gray Color = "gray"
)

// Classify rates end against today with the default horizon.
func Classify(end, today time.Time) Color {
	return ClassifyWithin(end, today, DefaultHorizonDays)
}

// ClassifyWithin returns red when end is before today, yellow when end falls
// in [today, today+horizonDays], and green otherwise.
func ClassifyWithin(end, today time.Time, horizonDays int) Color {
	end = domain.DateOf(end)
	today = domain.DateOf(today)
	if end.Before(today) {
		return Red
	}
	if !end.After(domain.AddDays(today, horizonDays)) {
		return Yellow
	}
	return Green
}

// Summary is the outcome of aggregating a group.
type Summary struct {
	Color  Color `json:"color"`
	Green  int   `json:"green"`
	Yellow int   `json:"yellow"`
	Red    int   `json:"red"`
	Total  int   `json:"total"`
}

// Empty is the summary of a group with no members.
var Empty = Summary{Color: Gray}

// Label is the badge text shown for the summary color.
func (s Summary) Label() string {
	switch s.Color {
	case Green:
		return "Active"
	case Yellow:
		return "Attention Needed"
	case Red:
		return "Expired"
	default:
		return "No Items"
	}
}

// Aggregate classifies every item by the date dateOf picks and summarises
// the group with the default horizon.
func Aggregate[T any](items []T, dateOf func(T) time.Time, today time.Time) Summary {
	return AggregateWithin(items, dateOf, today, DefaultHorizonDays)
}

// AggregateWithin is Aggregate with an explicit horizon.
func AggregateWithin[T any](items []T, dateOf func(T) time.Time, today time.Time, horizonDays int) Summary {
	if len(items) == 0 {
		return Empty
	}
	var s Summary
	for _, it := range items {
		switch ClassifyWithin(dateOf(it), today, horizonDays) {
		case Green:
			s.Green++
		case Yellow:
			s.Yellow++
		case Red:
			s.Red++
		}
	}
	s.Total = len(items)
	s.Color = summaryColor(s)
	return s
}

// summaryColor applies the group precedence. Mixed red and green reads as
// needing attention, not as expired.
func summaryColor(s Summary) Color {
	switch {
	case s.Yellow > 0:
		return Yellow
	case s.Red > 0 && s.Green > 0:
		return Yellow
	case s.Green == s.Total:
		return Green
	case s.Red == s.Total:
		return Red
	}
	return Green
}

// Dates is an identity accessor for aggregating raw dates.
func Dates(t time.Time) time.Time { return t }
