package contract

import (
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// RescheduleRequest triggers a melt-and-recast of all pending work.
// PreserveToday keeps today's events where they are and melts from
// tomorrow; otherwise today is the anchor and overdue work lands on it
// first. Now is injectable for tests and defaults to the wall clock.
type RescheduleRequest struct {
	UserID        string
	PlanID        string
	Trigger       domain.RescheduleTrigger
	PreserveToday bool
	Now           *time.Time
}

func NewRescheduleRequest(userID, planID string, trigger domain.RescheduleTrigger) RescheduleRequest {
	return RescheduleRequest{UserID: userID, PlanID: planID, Trigger: trigger}
}

type RescheduleResponse struct {
	Trigger     domain.RescheduleTrigger
	ExecutedAt  time.Time
	MeltedCount int // pending events picked up by the pass
	MovedCount  int // units whose earliest pending day actually changed
	FirstDate   time.Time
	LastDate    time.Time
}
