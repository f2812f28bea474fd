package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/testutil"
)

func mondayAt(hour int) time.Time {
	return monday.Add(time.Duration(hour) * time.Hour)
}

func TestReschedule_OverdueMeltsForward(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	friday := monday.AddDate(0, 0, -3)
	overdue := testutil.NewTestEvent(testUser, "p1", friday, 60, testutil.WithMetaID("g1"))
	today := testutil.NewTestEvent(testUser, "p1", monday, 60, testutil.WithMetaID("g2"))
	tomorrow := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 60, testutil.WithMetaID("g3"))
	e.insert(t, overdue, today, tomorrow)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	resp, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.MeltedCount)
	assert.Equal(t, 3, resp.MovedCount, "every unit shifts forward one slot")

	queue := e.pendingFrom(t, "p1", monday)
	require.Len(t, queue, 3)
	assert.Equal(t, "g1", queue[0].MetaID, "overdue work lands first on the anchor day")
	assert.True(t, queue[0].Date.Equal(monday))
	assert.Equal(t, "g2", queue[1].MetaID)
	assert.True(t, queue[1].Date.Equal(monday.AddDate(0, 0, 1)))
	assert.Equal(t, "g3", queue[2].MetaID)
	assert.True(t, queue[2].Date.Equal(monday.AddDate(0, 0, 2)))
}

func TestReschedule_ReviewsComeFirst(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	friday := monday.AddDate(0, 0, -3)
	thursday := monday.AddDate(0, 0, -4)
	lesson := testutil.NewTestEvent(testUser, "p1", thursday, 30, testutil.WithMetaID("g1"))
	review := testutil.NewTestEvent(testUser, "p1", friday, 20,
		testutil.WithMetaID("g0"), testutil.WithReviewLabel("REV. 1/2", "orig-1"))
	e.insert(t, lesson, review)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	_, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err)

	day, err := e.schedule.GetDay(ctx, testUser, "p1", monday)
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "REV. 1/2", day[0].ReviewLabel,
		"reviews outrank older general work in the re-cast order")
	assert.Equal(t, "g1", day[1].MetaID)
}

func TestReschedule_Idempotent(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	e.insert(t,
		testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -3), 60, testutil.WithMetaID("g1")),
		testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 1), 100, testutil.WithMetaID("g2")),
	)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now

	first, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err)
	assert.Positive(t, first.MovedCount)

	second, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.MovedCount,
		"a second pass with no intervening change must move nothing")
}

func TestReschedule_NoBudgetFailsFast(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", domain.Routine{})
	ctx := context.Background()

	kept := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -1), 60, testutil.WithMetaID("g1"))
	e.insert(t, kept)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	_, err := e.rescheduleSvc.Reschedule(ctx, req)

	var schedErr *contract.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, contract.ErrNoBudget, schedErr.Code)

	still, err := e.schedule.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.True(t, still.Date.Equal(kept.Date), "a failed pass leaves the store untouched")
}

func TestReschedule_PreserveToday(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	todayEvent := testutil.NewTestEvent(testUser, "p1", monday, 60, testutil.WithMetaID("g1"))
	overdue := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -3), 60, testutil.WithMetaID("g2"))
	e.insert(t, todayEvent, overdue)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	req.PreserveToday = true
	resp, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.MeltedCount, "today's events stay out of the melt")

	still, err := e.schedule.GetByID(ctx, todayEvent.ID)
	require.NoError(t, err)
	assert.True(t, still.Date.Equal(monday))

	moved := e.pendingFrom(t, "p1", monday.AddDate(0, 0, 1))
	require.Len(t, moved, 1)
	assert.Equal(t, "g2", moved[0].MetaID)
	assert.True(t, moved[0].Date.Equal(monday.AddDate(0, 0, 1)))
}

func TestReschedule_CompletedWorkChargesAnchorDay(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	done := testutil.NewTestEvent(testUser, "p1", monday, 40,
		testutil.WithMetaID("g0"), testutil.Completed(40, mondayAt(8)))
	overdue := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -3), 60, testutil.WithMetaID("g1"))
	e.insert(t, done, overdue)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	_, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err)

	queue := e.pendingFrom(t, "p1", monday)
	require.Len(t, queue, 2, "60-min unit splits around the 20 min left today")
	assert.True(t, queue[0].Date.Equal(monday))
	assert.Equal(t, 20, queue[0].DurationMin)
	assert.Equal(t, 1, queue[0].Part)
	assert.True(t, queue[1].Date.Equal(monday.AddDate(0, 0, 1)))
	assert.Equal(t, 40, queue[1].DurationMin)
	assert.Equal(t, 2, queue[1].Part)
	assert.Greater(t, queue[0].Order, done.Order,
		"re-cast events slot in after the completed row")
}

func TestReschedule_CompletedWorkAheadKeepsItsSlot(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)
	first := testutil.NewTestEvent(testUser, "p1", monday, 60, testutil.WithMetaID("g1"))
	done := testutil.NewTestEvent(testUser, "p1", tuesday, 40,
		testutil.WithMetaID("g2"), testutil.Completed(40, mondayAt(8)))
	last := testutil.NewTestEvent(testUser, "p1", wednesday, 60, testutil.WithMetaID("g3"))
	e.insert(t, first, done, last)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	resp, err := e.rescheduleSvc.Reschedule(ctx, req)
	require.NoError(t, err, "a completed row days ahead must not break the re-insert")
	assert.Equal(t, 2, resp.MeltedCount)

	tue, err := e.schedule.GetDay(ctx, testUser, "p1", tuesday)
	require.NoError(t, err)
	require.Len(t, tue, 2)
	assert.Equal(t, done.ID, tue[0].ID, "the completed row keeps its slot")
	assert.Equal(t, "g3", tue[1].MetaID)
	assert.Equal(t, 20, tue[1].DurationMin, "only the minutes beside the completed work are filled")
	assert.Greater(t, tue[1].Order, done.Order)

	rest := e.pendingFrom(t, "p1", wednesday)
	require.Len(t, rest, 1)
	assert.Equal(t, 40, rest[0].DurationMin)
}

func TestReschedule_RollbackOnMidTxFailure(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	a := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -3), 60, testutil.WithMetaID("g1"))
	b := testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, -2), 60, testutil.WithMetaID("g2"))
	e.insert(t, a, b)

	boom := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: e.db, FailOn: 3, Err: boom}
	svc := NewRescheduleService(e.schedule, e.profiles, e.simul, failing)

	now := mondayAt(9)
	req := contract.NewRescheduleRequest(testUser, "p1", domain.TriggerManual)
	req.Now = &now
	_, err := svc.Reschedule(ctx, req)
	require.ErrorIs(t, err, boom)

	queue := e.pendingFrom(t, "p1", monday.AddDate(0, 0, -7))
	require.Len(t, queue, 2, "rollback restores every melted row")
	assert.True(t, queue[0].Date.Equal(a.Date))
	assert.True(t, queue[1].Date.Equal(b.Date))
}
