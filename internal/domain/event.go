package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReviewLabelPrefix discriminates spaced-review events from general work
// in student-facing views.
const ReviewLabelPrefix = "REV."

// ScheduledEvent is one persisted entry of a user's daily schedule. Events
// are grouped per (UserID, PlanID, Date); Order defines the intra-day
// sequence and is unique within the group.
type ScheduledEvent struct {
	ID             string
	UserID         string
	PlanID         string
	Date           time.Time // calendar day, zero time-of-day, local
	MetaID         string
	Type           GoalType
	Title          string
	DisciplineName string
	TopicName      string
	Color          string
	DurationMin    int
	Order          int
	Part           int // fragment index when a unit was split across days, 0 when whole

	Status      EventStatus
	RecordedMin int
	CompletedAt *time.Time

	// Back-reference to the lesson event that spawned this spaced review,
	// or to the first fragment of a split continuation.
	OriginalEventID string
	ReviewLabel     string // e.g. "REV. 2/3"

	// Overflow minutes folded into DurationMin by a smart-extension merge.
	ExtensionMin int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsReview reports whether the event is a spaced review.
func (e *ScheduledEvent) IsReview() bool {
	return e.OriginalEventID != "" || strings.HasPrefix(e.ReviewLabel, ReviewLabelPrefix)
}

// IsPending reports whether the event has not been completed yet.
func (e *ScheduledEvent) IsPending() bool {
	return e.Status == EventPending
}

// MarkCompleted transitions the event to completed. Completing an already
// completed event is rejected so duplicate submissions never mutate state.
func (e *ScheduledEvent) MarkCompleted(now time.Time) error {
	if e.Status == EventCompleted {
		return fmt.Errorf("event %s is already completed", e.ID)
	}
	e.Status = EventCompleted
	t := now
	e.CompletedAt = &t
	e.UpdatedAt = now
	return nil
}

// ApplyStudy adds recorded study minutes to the event.
func (e *ScheduledEvent) ApplyStudy(minutes int, now time.Time) error {
	if minutes <= 0 {
		return fmt.Errorf("study minutes must be positive, got %d", minutes)
	}
	e.RecordedMin += minutes
	e.UpdatedAt = now
	return nil
}

// Overflow returns how many recorded minutes exceed the allotted duration.
// Zero or negative means the event has not overrun its slot.
func (e *ScheduledEvent) Overflow() int {
	return e.RecordedMin - e.DurationMin
}

// ToWorkUnit converts the event back into a work unit for a re-cast pass.
func (e *ScheduledEvent) ToWorkUnit() WorkUnit {
	return WorkUnit{
		MetaID:          e.MetaID,
		Title:           e.Title,
		Type:            e.Type,
		DisciplineName:  e.DisciplineName,
		TopicName:       e.TopicName,
		Color:           e.Color,
		DurationMin:     e.DurationMin,
		OriginalEventID: e.OriginalEventID,
		ReviewLabel:     e.ReviewLabel,
	}
}
