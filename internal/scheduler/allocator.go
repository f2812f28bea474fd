package scheduler

import (
	"errors"
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// ErrNoBudget is returned when the routine carries no positive budget on
// any weekday. Nothing could ever be placed, so callers fail fast and
// leave the store untouched instead of looping forever.
var ErrNoBudget = errors.New("no available study time configured in routine")

const dateKeyLayout = "2006-01-02"

// Calendar supplies the per-day minute budget used by Allocate: the
// student's weekday routine, minus specific dates blocked by a scheduled
// simulado and minutes already consumed on a date by events that survive
// the current pass. Surviving rows also hold on to their intra-day order
// slots, so freshly allocated events start above them.
type Calendar struct {
	Routine  domain.Routine
	Blocked  map[string]bool // dates fully blocked, keyed 2006-01-02
	Consumed map[string]int  // minutes already occupied per date

	nextOrd map[string]int // first free order slot per date
}

// NewCalendar returns a Calendar over the given routine with no blocked
// or partially consumed dates.
func NewCalendar(routine domain.Routine) Calendar {
	return Calendar{Routine: routine}
}

// BudgetFor returns the allocatable minutes remaining on the given date.
func (c Calendar) BudgetFor(date time.Time) int {
	key := date.Format(dateKeyLayout)
	if c.Blocked[key] {
		return 0
	}
	b := c.Routine.MinutesFor(date) - c.Consumed[key]
	if b < 0 {
		return 0
	}
	return b
}

// Block marks a date as fully unavailable.
func (c *Calendar) Block(date time.Time) {
	if c.Blocked == nil {
		c.Blocked = make(map[string]bool)
	}
	c.Blocked[date.Format(dateKeyLayout)] = true
}

// Consume subtracts minutes from a date's budget.
func (c *Calendar) Consume(date time.Time, minutes int) {
	if c.Consumed == nil {
		c.Consumed = make(map[string]int)
	}
	c.Consumed[date.Format(dateKeyLayout)] += minutes
}

// Reserve records a surviving event on a date: its minutes come out of
// the budget and its order slot stays taken, so nothing allocated later
// can collide with it.
func (c *Calendar) Reserve(date time.Time, minutes, ord int) {
	c.Consume(date, minutes)
	if c.nextOrd == nil {
		c.nextOrd = make(map[string]int)
	}
	key := date.Format(dateKeyLayout)
	if ord+1 > c.nextOrd[key] {
		c.nextOrd[key] = ord + 1
	}
}

// FirstOrder returns the first free intra-day order slot on a date.
func (c Calendar) FirstOrder(date time.Time) int {
	return c.nextOrd[date.Format(dateKeyLayout)]
}

// Allocate packs the ordered units into calendar days starting at start,
// bounded by the calendar's per-day budget. A unit longer than the day's
// remaining budget is split into ordered part fragments whose durations
// sum exactly to the unit duration. Days with zero budget never receive
// events. Order is assigned per day from the day's first free slot,
// monotonically as events are appended.
//
// Emitted events carry date, content and ordering only; the caller stamps
// identity (ID, UserID, PlanID) and timestamps before persisting.
func Allocate(units []domain.WorkUnit, cal Calendar, start time.Time) ([]domain.ScheduledEvent, error) {
	if !cal.Routine.HasBudget() {
		return nil, ErrNoBudget
	}

	cursor := domain.Day(start)
	remaining := cal.BudgetFor(cursor)
	order := cal.FirstOrder(cursor)

	advance := func() {
		for {
			cursor = domain.NextDay(cursor)
			if b := cal.BudgetFor(cursor); b > 0 {
				remaining = b
				order = cal.FirstOrder(cursor)
				return
			}
		}
	}

	var events []domain.ScheduledEvent
	emit := func(u domain.WorkUnit, minutes, part int) {
		events = append(events, domain.ScheduledEvent{
			Date:            cursor,
			MetaID:          u.MetaID,
			Type:            u.Type,
			Title:           u.Title,
			DisciplineName:  u.DisciplineName,
			TopicName:       u.TopicName,
			Color:           u.Color,
			DurationMin:     minutes,
			Order:           order,
			Part:            part,
			Status:          domain.EventPending,
			OriginalEventID: u.OriginalEventID,
			ReviewLabel:     u.ReviewLabel,
		})
		order++
	}

	for _, u := range units {
		// A zero-duration unit (administrative marker) is emitted whole
		// and consumes no budget.
		if u.DurationMin == 0 {
			if remaining == 0 {
				advance()
			}
			emit(u, 0, 0)
			continue
		}

		left := u.DurationMin
		part := 0
		for left > 0 {
			if remaining == 0 {
				advance()
			}
			if left <= remaining {
				if part > 0 {
					part++
				}
				emit(u, left, part)
				remaining -= left
				left = 0
				continue
			}
			part++
			emit(u, remaining, part)
			left -= remaining
			remaining = 0
		}
	}

	return events, nil
}
