package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/insanusapp/planner/internal/domain"
)

var testShortIDCounter atomic.Int64

// NextShortID returns a unique plan short id for tests.
func NextShortID() string {
	return fmt.Sprintf("TST%02d", testShortIDCounter.Add(1))
}

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
		if s == domain.PlanPublished && p.PublishedAt == nil {
			t := time.Now().UTC()
			p.PublishedAt = &t
		}
	}
}

func WithShortID(id string) PlanOption {
	return func(p *domain.Plan) {
		p.ShortID = id
	}
}

func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:        uuid.New().String(),
		ShortID:   NextShortID(),
		Name:      name,
		Status:    domain.PlanPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	published := now
	p.PublishedAt = &published
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScheduledEvent options
type EventOption func(*domain.ScheduledEvent)

func WithOrder(ord int) EventOption {
	return func(e *domain.ScheduledEvent) {
		e.Order = ord
	}
}

func WithMetaID(id string) EventOption {
	return func(e *domain.ScheduledEvent) {
		e.MetaID = id
	}
}

func WithPart(part int) EventOption {
	return func(e *domain.ScheduledEvent) {
		e.Part = part
	}
}

func WithReviewLabel(label, originalID string) EventOption {
	return func(e *domain.ScheduledEvent) {
		e.Type = domain.GoalReview
		e.ReviewLabel = label
		e.OriginalEventID = originalID
	}
}

func Completed(recordedMin int, at time.Time) EventOption {
	return func(e *domain.ScheduledEvent) {
		e.Status = domain.EventCompleted
		e.RecordedMin = recordedMin
		t := at
		e.CompletedAt = &t
	}
}

func NewTestEvent(userID, planID string, date time.Time, minutes int, opts ...EventOption) domain.ScheduledEvent {
	now := time.Now().UTC()
	e := domain.ScheduledEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		PlanID:      planID,
		Date:        domain.Day(date),
		MetaID:      uuid.New().String(),
		Type:        domain.GoalLesson,
		Title:       "Aula",
		DurationMin: minutes,
		Status:      domain.EventPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewTestProfile returns a profile with the standard weekday routine
// (60 min Monday through Friday).
func NewTestProfile(userID, planID string, routine domain.Routine) *domain.StudyProfile {
	return &domain.StudyProfile{
		UserID:              userID,
		PlanID:              planID,
		SmartMergeTolerance: domain.DefaultMergeToleranceMin,
		Routine:             routine,
	}
}
