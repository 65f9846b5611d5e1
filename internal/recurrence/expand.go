// Package recurrence expands a recurrence rule and an inclusive date range
// into the concrete calendar days an entry applies to. It is the single
// implementation shared by availability and planning flows.
package recurrence

import (
	"errors"
	"slices"
	"time"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// maxIterations bounds the day scan so malformed ranges produce a truncated
// result instead of a runaway loop.
const maxIterations = 1000

// ErrInvalidRange indicates the start date is after the end date. Callers
// are expected to reject such ranges before reaching the network.
var ErrInvalidRange = errors.New("recurrence: start date is after end date")

// Expansion is the outcome of expanding a rule over a range.
type Expansion struct {
	// Dates is the ordered, duplicate-free list of qualifying days.
	Dates []domain.Date
	// Truncated is set when the scan hit maxIterations before reaching the
	// end of the range.
	Truncated bool
}

// Expand walks every day from debut to fin inclusive and keeps the days the
// rule selects. It is pure: identical inputs always yield identical output.
//
// Semantics, kept aligned with the production behavior they were lifted from:
//
//   - Weekly and biweekly rules with a non-empty weekday set keep only the
//     listed weekdays. An empty set keeps every day in range.
//   - Biweekly rules additionally keep only days whose ISO 8601 week number
//     has the same parity as the start date's ISO week number. ISO week
//     numbering restarts at year boundaries, so this is not equivalent to
//     stepping 14 days at a time.
//   - Monthly, yearly and custom rules keep every day in range. A custom
//     rule's interval is validated upstream but does not skip days here;
//     see the expansion notes in DESIGN.md before changing that.
func Expand(rule domain.Rule, debut, fin domain.Date) (Expansion, error) {
	if debut.After(fin) {
		return Expansion{}, ErrInvalidRange
	}

	var keep func(domain.Date) bool
	switch r := rule.(type) {
	case domain.Weekly:
		keep = weekdayFilter(r.Days)
	case domain.Biweekly:
		byWeekday := weekdayFilter(r.Days)
		_, startWeek := debut.ISOWeek()
		keep = func(d domain.Date) bool {
			if !byWeekday(d) {
				return false
			}
			_, week := d.ISOWeek()
			return (week-startWeek)%2 == 0
		}
	default:
		keep = func(domain.Date) bool { return true }
	}

	var out Expansion
	current := debut
	for i := 0; !current.After(fin); i++ {
		if i >= maxIterations {
			out.Truncated = true
			break
		}
		if keep(current) {
			out.Dates = append(out.Dates, current)
		}
		current = current.AddDays(1)
	}

	return out, nil
}

func weekdayFilter(days []time.Weekday) func(domain.Date) bool {
	if len(days) == 0 {
		return func(domain.Date) bool { return true }
	}
	return func(d domain.Date) bool {
		return slices.Contains(days, d.Weekday())
	}
}
