package scheduler

import (
	"testing"
	"time"

	"github.com/insanusapp/planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func pending(id, metaID string, date time.Time, order, minutes int) *domain.ScheduledEvent {
	return &domain.ScheduledEvent{
		ID: id, MetaID: metaID, Date: date, Order: order,
		DurationMin: minutes, Status: domain.EventPending, Type: domain.GoalLesson,
	}
}

func TestMeltOrder_ReviewsFirstPreservingIntraTypeOrder(t *testing.T) {
	general1 := pending("e1", "g1", day(0), 0, 30)
	review1 := pending("e2", "g2", day(0), 1, 15)
	review1.ReviewLabel = "REV. 1/2"
	general2 := pending("e3", "g3", day(1), 0, 30)
	review2 := pending("e4", "g4", day(1), 1, 15)
	review2.OriginalEventID = "src"

	ordered := MeltOrder([]*domain.ScheduledEvent{general1, review1, general2, review2})

	require.Len(t, ordered, 4)
	assert.Equal(t, "e2", ordered[0].ID)
	assert.Equal(t, "e4", ordered[1].ID)
	assert.Equal(t, "e1", ordered[2].ID)
	assert.Equal(t, "e3", ordered[3].ID)
}

func TestUnitsFromEvents_CoalescesFragments(t *testing.T) {
	frag1 := pending("e1", "g1", day(0), 0, 20)
	frag1.Part = 1
	frag2 := pending("e2", "g1", day(1), 0, 40)
	frag2.Part = 2
	whole := pending("e3", "g2", day(1), 1, 30)

	units := UnitsFromEvents([]*domain.ScheduledEvent{frag1, frag2, whole})

	require.Len(t, units, 2)
	assert.Equal(t, "g1", units[0].MetaID)
	assert.Equal(t, 60, units[0].DurationMin, "fragments re-flow as one block")
	assert.Equal(t, "g2", units[1].MetaID)
	assert.Equal(t, 30, units[1].DurationMin)
}

func TestUnitsFromEvents_SameGoalReviewsStayDistinct(t *testing.T) {
	r1 := pending("e1", "g1", day(1), 0, 15)
	r1.ReviewLabel = "REV. 1/2"
	r1.Part = 0
	r2 := pending("e2", "g1", day(7), 0, 15)
	r2.ReviewLabel = "REV. 2/2"
	r2.Part = 0

	units := UnitsFromEvents([]*domain.ScheduledEvent{r1, r2})
	require.Len(t, units, 2)
}

func TestCountMoved_DetectsDateChanges(t *testing.T) {
	before := []*domain.ScheduledEvent{
		pending("e1", "g1", day(0), 0, 30),
		pending("e2", "g2", day(1), 0, 30),
	}
	after := []*domain.ScheduledEvent{
		pending("n1", "g1", day(2), 0, 30),
		pending("n2", "g2", day(1), 0, 30),
	}
	assert.Equal(t, 1, CountMoved(before, after))
}

func TestCountMoved_IdenticalLayoutIsZero(t *testing.T) {
	events := []*domain.ScheduledEvent{
		pending("e1", "g1", day(0), 0, 30),
		pending("e2", "g2", day(1), 0, 30),
	}
	assert.Equal(t, 0, CountMoved(events, events))
}

func TestCountMoved_FragmentEarliestDateGoverns(t *testing.T) {
	frag1 := pending("e1", "g1", day(0), 0, 20)
	frag1.Part = 1
	frag2 := pending("e2", "g1", day(1), 0, 40)
	frag2.Part = 2
	// After re-cast the unit starts on the same day but is no longer split.
	whole := pending("n1", "g1", day(0), 0, 60)

	assert.Equal(t, 0, CountMoved([]*domain.ScheduledEvent{frag1, frag2}, []*domain.ScheduledEvent{whole}))
}
