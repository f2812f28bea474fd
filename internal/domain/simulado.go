package domain

import (
	"fmt"
	"time"
)

// Simulado is a mock exam authored into a plan. It does not flow through
// the allocator; once released by the gate it is scheduled explicitly by
// the student as a full-day blocking event.
type Simulado struct {
	ID          string
	PlanID      string
	Title       string
	DurationMin int
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserSimulado is a student's scheduled or submitted attempt.
type UserSimulado struct {
	ID          string
	UserID      string
	SimuladoID  string
	PlanID      string
	Date        time.Time
	Status      SimuladoStatus
	Score       *float64
	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Submit records the attempt's score. A second submission is rejected
// before any state changes.
func (u *UserSimulado) Submit(score float64, now time.Time) error {
	if u.Status == SimuladoSubmitted {
		return fmt.Errorf("simulado attempt %s was already submitted", u.ID)
	}
	u.Status = SimuladoSubmitted
	u.Score = &score
	t := now
	u.SubmittedAt = &t
	u.UpdatedAt = now
	return nil
}
