package contract

import (
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// GenerateRequest asks for a fresh schedule projection of a published
// plan. When Sync is set, pending rows are regenerated while goals the
// student already completed are filtered out of the new projection.
type GenerateRequest struct {
	UserID    string
	PlanID    string
	StartDate *time.Time // defaults to today
	Sync      bool
}

type GenerateResponse struct {
	GeneratedAt time.Time
	EventCount  int
	FirstDate   time.Time
	LastDate    time.Time
	SkippedDone int // goals dropped because they were already completed
	Warnings    []string
}

// DaySchedule is one rendered day of the student's agenda.
type DaySchedule struct {
	Date   time.Time
	Events []*domain.ScheduledEvent
}

// TotalMin sums the allotted durations of the day.
func (d *DaySchedule) TotalMin() int {
	total := 0
	for _, e := range d.Events {
		total += e.DurationMin
	}
	return total
}
