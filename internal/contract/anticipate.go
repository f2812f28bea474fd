package contract

import (
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// AnticipationOffer is the prefix of future work that fits today's
// remaining budget. BudgetMin already accounts for both the routine
// balance and the real time left in the day.
type AnticipationOffer struct {
	Date      time.Time
	BudgetMin int
	Events    []*domain.ScheduledEvent
	TotalMin  int
}

type AnticipationResult struct {
	MovedCount int
	MovedMin   int
	Backfilled int // future days re-cast after the pull
}
