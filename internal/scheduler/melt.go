package scheduler

import (
	"sort"
	"time"

	"github.com/insanusapp/planner/internal/domain"
)

// MeltOrder sorts melted pending events into re-cast order: spaced-review
// events first, then general work, each group preserving its original
// (date, intra-day order) sequence.
func MeltOrder(events []*domain.ScheduledEvent) []*domain.ScheduledEvent {
	out := make([]*domain.ScheduledEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].IsReview(), out[j].IsReview()
		if ri != rj {
			return ri
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// UnitsFromEvents converts melted events back into work units for the
// allocator, coalescing adjacent part fragments of the same unit so a
// previously split unit re-flows as one block instead of keeping its old
// fracture points.
func UnitsFromEvents(events []*domain.ScheduledEvent) []domain.WorkUnit {
	var units []domain.WorkUnit
	for _, e := range events {
		if n := len(units); n > 0 && e.Part > 0 &&
			units[n-1].MetaID == e.MetaID && units[n-1].ReviewLabel == e.ReviewLabel {
			units[n-1].DurationMin += e.DurationMin
			continue
		}
		units = append(units, e.ToWorkUnit())
	}
	return units
}

// moveKey identifies a schedulable unit across a melt/re-cast pass. The
// review label disambiguates multiple reviews spawned from the same goal.
func moveKey(e *domain.ScheduledEvent) string {
	return e.MetaID + "|" + e.ReviewLabel
}

// CountMoved returns how many units ended up on a different date after a
// re-cast, comparing each unit's earliest pending date before and after.
// Two consecutive passes with no intervening change therefore count zero.
func CountMoved(before, after []*domain.ScheduledEvent) int {
	earliest := func(events []*domain.ScheduledEvent) map[string]time.Time {
		m := make(map[string]time.Time, len(events))
		for _, e := range events {
			if cur, ok := m[moveKey(e)]; !ok || e.Date.Before(cur) {
				m[moveKey(e)] = e.Date
			}
		}
		return m
	}

	was := earliest(before)
	now := earliest(after)
	moved := 0
	for key, newDate := range now {
		if oldDate, ok := was[key]; ok && !oldDate.Equal(newDate) {
			moved++
		}
	}
	return moved
}
