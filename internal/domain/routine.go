package domain

import (
	"fmt"
	"time"
)

// Routine maps weekday index (0=Sunday..6=Saturday) to a study budget in
// minutes. A zero entry means no study on that weekday.
type Routine [7]int

// MinutesFor returns the budget for the weekday of the given date.
func (r Routine) MinutesFor(date time.Time) int {
	return r[int(date.Weekday())]
}

// HasBudget reports whether at least one weekday carries a positive budget.
func (r Routine) HasBudget() bool {
	for _, m := range r {
		if m > 0 {
			return true
		}
	}
	return false
}

// TotalWeekMin returns the sum of all weekday budgets.
func (r Routine) TotalWeekMin() int {
	total := 0
	for _, m := range r {
		total += m
	}
	return total
}

// Validate checks that no weekday budget is negative.
func (r Routine) Validate() error {
	for i, m := range r {
		if m < 0 {
			return fmt.Errorf("routine minutes for weekday %d must be >= 0, got %d", i, m)
		}
	}
	return nil
}
