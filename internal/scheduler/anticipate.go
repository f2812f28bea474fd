package scheduler

import (
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

const (
	// Offers below this are not worth interrupting the student for.
	minUsefulOfferMin = 15
	// Floor applied early in the day before anything was recorded.
	flooredOfferMin = 30
	// "Early in the day" cutoff hour for the floor heuristic.
	earlyDayHour = 12
)

// BudgetInput carries the figures needed to size an anticipation offer.
type BudgetInput struct {
	Now              time.Time
	RoutineMin       int // routine budget for today's weekday
	RecordedTodayMin int // minutes already recorded today
}

// AnticipationBudget computes the opt-in budget for pulling future work
// into today: the smaller of the unused routine balance and the real wall
// clock left in the day. When that lands under 15 minutes while nothing
// was recorded yet and it is still morning, the offer is floored to a
// minimum useful 30 minutes.
func AnticipationBudget(in BudgetInput) int {
	realLeft := int(domain.EndOfDay(in.Now).Sub(in.Now).Minutes())

	balance := in.RoutineMin - in.RecordedTodayMin
	if balance < 0 {
		balance = 0
	}

	budget := balance
	if realLeft < budget {
		budget = realLeft
	}

	if budget < minUsefulOfferMin && in.RecordedTodayMin == 0 && in.Now.Hour() < earlyDayHour {
		budget = flooredOfferMin
	}
	return budget
}

// SelectPrefix returns the maximal ordered prefix of the future queue
// whose cumulative duration fits the budget. Greedy: it stops at the
// first unit that would overflow, with no reordering or bin packing.
func SelectPrefix(queue []*domain.ScheduledEvent, budgetMin int) []*domain.ScheduledEvent {
	var selected []*domain.ScheduledEvent
	total := 0
	for _, e := range queue {
		if total+e.DurationMin > budgetMin {
			break
		}
		selected = append(selected, e)
		total += e.DurationMin
	}
	return selected
}
