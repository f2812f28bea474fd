package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/testutil"
)

func TestAnticipationOffer_PrefixWithinBalance(t *testing.T) {
	e := newEnv(t)
	routine := domain.Routine{0, 180, 180, 180, 180, 180, 0}
	e.withProfile(t, "p1", routine)
	ctx := context.Background()

	done := testutil.NewTestEvent(testUser, "p1", monday, 150,
		testutil.Completed(150, mondayAt(14)))
	first := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 25, testutil.WithMetaID("g2"))
	second := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 10,
		testutil.WithMetaID("g3"), testutil.WithOrder(1))
	e.insert(t, done, first, second)

	offer, err := e.anticipationSvc.Offer(ctx, testUser, "p1", mondayAt(15))
	require.NoError(t, err)
	assert.Equal(t, 30, offer.BudgetMin, "180 routine minus 150 recorded")
	require.Len(t, offer.Events, 1, "greedy prefix stops at the first overflow")
	assert.Equal(t, "g2", offer.Events[0].MetaID)
	assert.Equal(t, 25, offer.TotalMin)
}

func TestAnticipationOffer_MorningFloor(t *testing.T) {
	e := newEnv(t)
	routine := domain.Routine{0, 10, 60, 60, 60, 60, 0}
	e.withProfile(t, "p1", routine)
	ctx := context.Background()

	e.insert(t, testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 30, testutil.WithMetaID("g2")))

	offer, err := e.anticipationSvc.Offer(ctx, testUser, "p1", mondayAt(9))
	require.NoError(t, err)
	assert.Equal(t, 30, offer.BudgetMin,
		"a sub-15 balance floors to 30 before noon with nothing recorded")
	require.Len(t, offer.Events, 1)
}

func TestAnticipationOffer_PendingTodayDisqualifies(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	e.insert(t,
		testutil.NewTestEvent(testUser, "p1", monday, 30),
		testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 30),
	)

	_, err := e.anticipationSvc.Offer(ctx, testUser, "p1", mondayAt(15))
	var schedErr *contract.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, contract.ErrNothingToOffer, schedErr.Code)
	assert.Contains(t, schedErr.Message, "pending work")
}

func TestAnticipationOffer_OverdueDisqualifies(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	e.insert(t,
		testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -3), 30),
		testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 30),
	)

	_, err := e.anticipationSvc.Offer(ctx, testUser, "p1", mondayAt(15))
	var schedErr *contract.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Contains(t, schedErr.Message, "overdue")
}

func TestAnticipationOffer_NothingAhead(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)

	_, err := e.anticipationSvc.Offer(context.Background(), testUser, "p1", mondayAt(15))
	var schedErr *contract.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, contract.ErrNothingToOffer, schedErr.Code)
}

func TestAnticipationAccept_PullsForwardAndCompacts(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	done := testutil.NewTestEvent(testUser, "p1", monday, 30,
		testutil.Completed(30, mondayAt(9)))
	g2 := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 30, testutil.WithMetaID("g2"))
	g3 := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 30,
		testutil.WithMetaID("g3"), testutil.WithOrder(1))
	g4 := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 2), 60, testutil.WithMetaID("g4"))
	e.insert(t, done, g2, g3, g4)

	offer, err := e.anticipationSvc.Offer(ctx, testUser, "p1", mondayAt(10))
	require.NoError(t, err)
	require.Len(t, offer.Events, 1)
	require.Equal(t, "g2", offer.Events[0].MetaID)

	result, err := e.anticipationSvc.Accept(ctx, testUser, "p1", offer)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MovedCount)
	assert.Equal(t, 30, result.MovedMin)

	today, err := e.schedule.GetDay(ctx, testUser, "p1", monday)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, "g2", today[1].MetaID, "anticipated work lands after completed rows")

	tuesday := e.pendingFrom(t, "p1", monday.AddDate(0, 0, 1))
	require.NotEmpty(t, tuesday)
	assert.Equal(t, "g3", tuesday[0].MetaID)
	total := 0
	for _, ev := range tuesday {
		if ev.Date.Equal(monday.AddDate(0, 0, 1)) {
			total += ev.DurationMin
		}
	}
	assert.LessOrEqual(t, total, 60, "compacted day still honors the routine budget")
}
