package scheduler

import "github.com/insanusapp/planner/internal/domain"

// MergeEligible reports whether a recorded-time overflow qualifies for a
// smart-extension merge: strictly positive and within the student's
// configured tolerance.
func MergeEligible(overflowMin, toleranceMin int) bool {
	return overflowMin > 0 && overflowMin <= toleranceMin
}

// AbsorbOverflow consumes overflow minutes from the given follow-on
// fragments of the merged unit, in order. Fragments fully absorbed are
// returned as removed ids; a partially absorbed fragment is returned
// shrunk. Fragment durations plus the absorbed overflow stay conserved.
func AbsorbOverflow(fragments []*domain.ScheduledEvent, overflowMin int) (shrunk []*domain.ScheduledEvent, removedIDs []string) {
	left := overflowMin
	for _, f := range fragments {
		if left <= 0 {
			break
		}
		if f.DurationMin <= left {
			left -= f.DurationMin
			removedIDs = append(removedIDs, f.ID)
			continue
		}
		f.DurationMin -= left
		left = 0
		shrunk = append(shrunk, f)
	}
	return shrunk, removedIDs
}
