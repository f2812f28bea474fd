package scheduler

import (
	"testing"

	"github.com/insanusapp/planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEligible(t *testing.T) {
	cases := []struct {
		overflow  int
		tolerance int
		want      bool
	}{
		{5, 20, true},
		{20, 20, true},
		{21, 20, false},
		{0, 20, false},
		{-10, 20, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MergeEligible(tc.overflow, tc.tolerance),
			"overflow=%d tolerance=%d", tc.overflow, tc.tolerance)
	}
}

func TestAbsorbOverflow_RemovesTinyOrphan(t *testing.T) {
	frag := pending("e2", "g1", day(1), 0, 5)
	frag.Part = 2

	shrunk, removed := AbsorbOverflow([]*domain.ScheduledEvent{frag}, 5)
	assert.Empty(t, shrunk)
	assert.Equal(t, []string{"e2"}, removed)
}

func TestAbsorbOverflow_ShrinksLargerFragment(t *testing.T) {
	frag := pending("e2", "g1", day(1), 0, 25)
	frag.Part = 2

	shrunk, removed := AbsorbOverflow([]*domain.ScheduledEvent{frag}, 10)
	require.Len(t, shrunk, 1)
	assert.Equal(t, 15, shrunk[0].DurationMin)
	assert.Empty(t, removed)
}

func TestAbsorbOverflow_SpansFragments(t *testing.T) {
	f1 := pending("e2", "g1", day(1), 0, 5)
	f2 := pending("e3", "g1", day(2), 0, 20)

	shrunk, removed := AbsorbOverflow([]*domain.ScheduledEvent{f1, f2}, 12)
	require.Len(t, shrunk, 1)
	assert.Equal(t, 13, shrunk[0].DurationMin)
	assert.Equal(t, []string{"e2"}, removed)
}

func TestAbsorbOverflow_ZeroOverflowNoChange(t *testing.T) {
	f := pending("e2", "g1", day(1), 0, 20)
	shrunk, removed := AbsorbOverflow([]*domain.ScheduledEvent{f}, 0)
	assert.Empty(t, shrunk)
	assert.Empty(t, removed)
	assert.Equal(t, 20, f.DurationMin)
}
