// Package renewal derives the yearly renewal checkpoints implied by a
// multi-year policy and records a notice for each one that has come due.
package renewal

import (
	"time"

	"insurance-tracker/internal/domain"
)

// Checkpoint is one yearly renewal date of a policy.
type Checkpoint struct {
	Year    int
	DueDate time.Time
}

// Anniversary moves end to the given year, keeping month and day. Feb 29
// lands on Feb 28 in common years.
func Anniversary(end time.Time, year int) time.Time {
	end = domain.DateOf(end)
	month, day := end.Month(), end.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Due lists the checkpoints of a policy running from start to end that have
// come due by today. The policy's first year never produces a checkpoint,
// and a policy that has already ended produces none.
func Due(start, end, today time.Time) []Checkpoint {
	start = domain.DateOf(start)
	end = domain.DateOf(end)
	today = domain.DateOf(today)
	if !today.Before(end) {
		return nil
	}
	var out []Checkpoint
	for year := start.Year() + 1; year <= end.Year(); year++ {
		due := Anniversary(end, year)
		if due.After(today) {
			continue
		}
		out = append(out, Checkpoint{Year: year, DueDate: due})
	}
	return out
}
