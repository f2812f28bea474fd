package contract

import "time"

// CompleteResult reports a completion plus the spaced reviews it spawned.
// ReviewWarnings carries non-fatal review placement failures: completion
// itself never rolls back because reviews could not be written.
type CompleteResult struct {
	EventID        string
	CompletedAt    time.Time
	ReviewsSpawned int
	ReviewDates    []time.Time
	ReviewWarnings []string
}

type LogStudyRequest struct {
	UserID  string
	EventID string
	Minutes int
	Note    string
	Now     *time.Time
}

// MergeOffer proposes folding a small overflow into the running event
// instead of leaving a residue fragment behind. Offered only when the
// overflow is within the profile's smart-merge tolerance.
type MergeOffer struct {
	EventID      string
	Title        string
	OverflowMin  int
	ToleranceMin int
}

type LogStudyResult struct {
	EventID     string
	RecordedMin int
	Sessions    int         // study logs recorded against the event so far
	Offer       *MergeOffer // nil when nothing to merge
}

// MergeResult reports an accepted smart-extension merge and the gap-fill
// pass that follows it.
type MergeResult struct {
	EventID       string
	AbsorbedMin   int
	ShrunkEvents  int
	RemovedEvents int
	Backfilled    int // units pulled onto an earlier day by the gap-fill
}
