package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Plan is an admin-authored curriculum. Students generate their schedule
// from the published structure; republishing bumps PublishedAt, which is
// compared against a schedule's generation marker to trigger a re-sync.
type Plan struct {
	ID          string
	ShortID     string
	Name        string
	Status      PlanStatus
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. TRF01).
func (p *Plan) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. TRF01)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
func (p *Plan) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Discipline groups topics under a plan and carries the display color
// propagated onto every event generated from it.
type Discipline struct {
	ID        string
	PlanID    string
	Name      string
	Color     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Topic struct {
	ID           string
	DisciplineID string
	Name         string
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Goal is the atomic study target under a topic. ReviewIntervals is a
// comma-separated list of day offsets (e.g. "1,7,30") for spaced reviews
// spawned when a lesson goal is completed; empty means no reviews.
type Goal struct {
	ID              string
	TopicID         string
	Title           string
	Type            GoalType
	DurationMin     int
	Position        int
	ReviewIntervals string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Cycle is one ordered pass of the curriculum.
type Cycle struct {
	ID        string
	PlanID    string
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CycleItem is an ordered entry of a cycle: either a topic reference
// (expanded into that topic's goals) or a simulado placeholder (surfaced
// as a gated unlockable, never expanded by the flattener). Referenced ids
// are carried without foreign-key enforcement so a republished plan can
// leave dangling references behind; the flattener skips and logs them.
type CycleItem struct {
	ID         string
	CycleID    string
	Position   int
	Kind       CycleItemKind
	TopicID    string
	SimuladoID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
