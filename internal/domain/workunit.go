package domain

// WorkUnit is an ephemeral unit of schedulable work, produced by flattening
// a curriculum or by melting pending events for a re-cast. Immutable once
// emitted; consumed exactly once by the allocator per pass.
type WorkUnit struct {
	MetaID         string
	Title          string
	Type           GoalType
	DisciplineName string
	TopicName      string
	Color          string
	DurationMin    int
	Order          int

	// Review configuration carried from the source goal, e.g. "1,7,30".
	ReviewIntervals string

	// Set only on units re-cast from spaced-review events, so the review
	// identity survives a reschedule.
	OriginalEventID string
	ReviewLabel     string
}

// IsReview reports whether the unit re-casts a spaced-review event.
func (u WorkUnit) IsReview() bool {
	return u.OriginalEventID != "" || u.ReviewLabel != ""
}
