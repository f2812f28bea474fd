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

func TestGenerate_PacksGoalsIntoRoutine(t *testing.T) {
	e := newEnv(t)
	plan := e.seedPlan(t)
	e.withProfile(t, plan.ID, weekdayRoutine)
	ctx := context.Background()

	start := monday
	resp, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.EventCount, "three 40-min goals over 60-min days split one goal")
	assert.True(t, resp.FirstDate.Equal(monday))
	assert.True(t, resp.LastDate.Equal(monday.AddDate(0, 0, 1)))

	day1, err := e.schedule.GetDay(ctx, testUser, plan.ID, monday)
	require.NoError(t, err)
	require.Len(t, day1, 2)
	assert.Equal(t, "Aula 01", day1[0].Title)
	assert.Equal(t, 40, day1[0].DurationMin)
	assert.Equal(t, 0, day1[0].Part)
	assert.Equal(t, "Material 01", day1[1].Title)
	assert.Equal(t, 20, day1[1].DurationMin)
	assert.Equal(t, 1, day1[1].Part)

	day2, err := e.schedule.GetDay(ctx, testUser, plan.ID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, day2, 2)
	assert.Equal(t, "Material 01", day2[0].Title)
	assert.Equal(t, 20, day2[0].DurationMin)
	assert.Equal(t, 2, day2[0].Part)
	assert.Equal(t, "Questões 01", day2[1].Title)
	assert.Equal(t, 40, day2[1].DurationMin)
	assert.Equal(t, 0, day2[1].Part)

	for _, ev := range append(day1, day2...) {
		assert.Equal(t, "Português", ev.DisciplineName)
		assert.Equal(t, "Crase", ev.TopicName)
		assert.Equal(t, "#b8bb26", ev.Color)
	}
}

func TestGenerate_RejectsUnpublishedPlan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	draft := testutil.NewTestPlan("Rascunho", testutil.WithPlanStatus(domain.PlanDraft))
	draft.PublishedAt = nil
	require.NoError(t, e.plans.Create(ctx, draft))
	e.withProfile(t, draft.ID, weekdayRoutine)

	_, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{UserID: testUser, PlanID: draft.ID})
	var schedErr *contract.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, contract.ErrPlanNotPublished, schedErr.Code)
}

func TestGenerate_NoBudget(t *testing.T) {
	e := newEnv(t)
	plan := e.seedPlan(t)
	e.withProfile(t, plan.ID, domain.Routine{})
	ctx := context.Background()

	start := monday
	_, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start,
	})
	var schedErr *contract.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, contract.ErrNoBudget, schedErr.Code)
}

func TestGenerate_SyncSkipsCompletedGoals(t *testing.T) {
	e := newEnv(t)
	plan := e.seedPlan(t)
	e.withProfile(t, plan.ID, weekdayRoutine)
	ctx := context.Background()

	start := monday
	_, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start,
	})
	require.NoError(t, err)

	day1, err := e.schedule.GetDay(ctx, testUser, plan.ID, monday)
	require.NoError(t, err)
	first := day1[0]
	require.NoError(t, first.MarkCompleted(mondayAt(10)))
	require.NoError(t, e.schedule.Update(ctx, first))

	resp, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start, Sync: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SkippedDone)

	queue := e.pendingFrom(t, plan.ID, monday)
	for _, ev := range queue {
		assert.NotEqual(t, first.MetaID, ev.MetaID, "completed goal must not be regenerated")
	}
	still, err := e.schedule.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventCompleted, still.Status, "sync never touches history")
}

func TestGenerate_CompletedWorkAheadKeepsItsSlot(t *testing.T) {
	e := newEnv(t)
	plan := e.seedPlan(t)
	e.withProfile(t, plan.ID, weekdayRoutine)
	ctx := context.Background()

	tuesday := monday.AddDate(0, 0, 1)
	done := testutil.NewTestEvent(testUser, plan.ID, tuesday, 40,
		testutil.WithMetaID("old-goal"), testutil.Completed(40, mondayAt(8)))
	e.insert(t, done)

	start := monday
	resp, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start,
	})
	require.NoError(t, err, "history on a later day must not break the re-insert")
	assert.Equal(t, 4, resp.EventCount)

	day2, err := e.schedule.GetDay(ctx, testUser, plan.ID, tuesday)
	require.NoError(t, err)
	require.Len(t, day2, 2)
	assert.Equal(t, done.ID, day2[0].ID)
	assert.Equal(t, "Material 01", day2[1].Title)
	assert.Equal(t, 20, day2[1].DurationMin, "Tuesday only has the 20 minutes beside history")
	assert.Equal(t, 1, day2[1].Order)
	assert.True(t, resp.LastDate.Equal(monday.AddDate(0, 0, 2)))
}

func TestGenerate_SyncKeepsHalfFinishedSplitGoals(t *testing.T) {
	e := newEnv(t)
	plan := e.seedPlan(t)
	e.withProfile(t, plan.ID, weekdayRoutine)
	ctx := context.Background()

	start := monday
	_, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start,
	})
	require.NoError(t, err)

	day1, err := e.schedule.GetDay(ctx, testUser, plan.ID, monday)
	require.NoError(t, err)
	fragment := day1[1]
	require.Equal(t, 1, fragment.Part, "Material 01 splits across Monday and Tuesday")
	require.NoError(t, fragment.MarkCompleted(mondayAt(10)))
	require.NoError(t, e.schedule.Update(ctx, fragment))

	resp, err := e.scheduleSvc.Generate(ctx, contract.GenerateRequest{
		UserID: testUser, PlanID: plan.ID, StartDate: &start, Sync: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SkippedDone, "one completed fragment does not finish the goal")

	total := 0
	for _, ev := range e.pendingFrom(t, plan.ID, monday) {
		if ev.MetaID == fragment.MetaID {
			total += ev.DurationMin
		}
	}
	assert.Equal(t, 40, total, "the half-finished goal is regenerated whole")
}

func TestGetRange_GroupsByDay(t *testing.T) {
	e := newEnv(t)
	e.withProfile(t, "p1", weekdayRoutine)
	ctx := context.Background()

	e.insert(t,
		testutil.NewTestEvent(testUser, "p1", monday, 30, testutil.WithOrder(0)),
		testutil.NewTestEvent(testUser, "p1", monday, 30, testutil.WithOrder(1)),
		testutil.NewTestEvent(testUser, "p1", monday.AddDate(0, 0, 2), 30),
	)

	days, err := e.scheduleSvc.GetRange(ctx, testUser, "p1", monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, days, 2, "empty days are not materialized")
	assert.Len(t, days[0].Events, 2)
	assert.Equal(t, 60, days[0].TotalMin())
	assert.Len(t, days[1].Events, 1)
}

func TestToday_ReturnsCurrentDay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.insert(t, testutil.NewTestEvent(testUser, "p1", monday, 45))

	day, err := e.scheduleSvc.Today(ctx, testUser, "p1", mondayAt(14))
	require.NoError(t, err)
	assert.True(t, day.Date.Equal(monday))
	require.Len(t, day.Events, 1)
	assert.Equal(t, 45, day.TotalMin())
}
