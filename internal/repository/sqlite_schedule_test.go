package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func day(offset int) time.Time {
	base := time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local) // a Monday
	return base.AddDate(0, 0, offset)
}

func testEvent(date time.Time, ord, minutes int) domain.ScheduledEvent {
	return domain.ScheduledEvent{
		ID:          uuid.NewString(),
		UserID:      "u1",
		PlanID:      "p1",
		Date:        date,
		MetaID:      "g-" + uuid.NewString()[:8],
		Type:        domain.GoalLesson,
		Title:       "Aula",
		DurationMin: minutes,
		Order:       ord,
		Status:      domain.EventPending,
	}
}

func TestScheduleRepo_InsertAndGetDay(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	first := testEvent(day(0), 0, 40)
	second := testEvent(day(0), 1, 20)
	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{second, first}))

	got, err := repo.GetDay(ctx, "u1", "p1", day(0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID, "day listing must follow ord, not insert order")
	assert.Equal(t, second.ID, got[1].ID)
	assert.True(t, got[0].Date.Equal(day(0)))
}

func TestScheduleRepo_ListPendingBefore(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	past := testEvent(day(-2), 0, 30)
	today := testEvent(day(0), 0, 30)
	done := testEvent(day(-1), 0, 30)
	done.Status = domain.EventCompleted
	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{past, today, done}))

	strict, err := repo.ListPendingBefore(ctx, "u1", "p1", day(0), false)
	require.NoError(t, err)
	require.Len(t, strict, 1, "completed rows and today must be excluded")
	assert.Equal(t, past.ID, strict[0].ID)

	inclusive, err := repo.ListPendingBefore(ctx, "u1", "p1", day(0), true)
	require.NoError(t, err)
	assert.Len(t, inclusive, 2)
}

func TestScheduleRepo_DeleteAllPendingKeepsCompleted(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	pending := testEvent(day(1), 0, 30)
	completed := testEvent(day(1), 1, 30)
	completed.Status = domain.EventCompleted
	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{pending, completed}))

	require.NoError(t, repo.DeleteAllPending(ctx, "u1", "p1"))

	got, err := repo.GetDay(ctx, "u1", "p1", day(1))
	require.NoError(t, err)
	require.Len(t, got, 1, "completed history must survive the purge")
	assert.Equal(t, completed.ID, got[0].ID)
}

func TestScheduleRepo_UpdateRoundTrip(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	e := testEvent(day(0), 0, 60)
	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{e}))

	loaded, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)

	now := time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)
	require.NoError(t, loaded.ApplyStudy(75, now))
	require.NoError(t, loaded.MarkCompleted(now))
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EventCompleted, again.Status)
	assert.Equal(t, 75, again.RecordedMin)
	assert.Equal(t, 15, again.Overflow())
	require.NotNil(t, again.CompletedAt)
	assert.True(t, again.CompletedAt.Equal(now))
}

func TestScheduleRepo_NextOrder(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	ord, err := repo.NextOrder(ctx, "u1", "p1", day(0))
	require.NoError(t, err)
	assert.Equal(t, 0, ord, "empty day starts at zero")

	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{
		testEvent(day(0), 0, 30), testEvent(day(0), 1, 30),
	}))

	ord, err = repo.NextOrder(ctx, "u1", "p1", day(0))
	require.NoError(t, err)
	assert.Equal(t, 2, ord)
}

func TestScheduleRepo_CompletedMetaIDsExcludesReviews(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	lesson := testEvent(day(-1), 0, 30)
	lesson.MetaID = "goal-a"
	lesson.Status = domain.EventCompleted

	review := testEvent(day(-1), 1, 15)
	review.MetaID = "goal-b"
	review.ReviewLabel = "REV. 1/2"
	review.OriginalEventID = lesson.ID
	review.Status = domain.EventCompleted

	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{lesson, review}))

	done, err := repo.CompletedMetaIDs(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, done["goal-a"])
	assert.False(t, done["goal-b"], "completing a review does not complete its goal")
}

func TestScheduleRepo_CompletedMetaIDsRequireAllFragments(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	part1 := testEvent(day(-1), 0, 20)
	part1.MetaID = "goal-split"
	part1.Part = 1
	part1.Status = domain.EventCompleted
	part2 := testEvent(day(0), 0, 20)
	part2.MetaID = "goal-split"
	part2.Part = 2
	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{part1, part2}))

	done, err := repo.CompletedMetaIDs(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, done["goal-split"], "a half-finished split unit is not done")

	loaded, err := repo.GetByID(ctx, part2.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.MarkCompleted(time.Now()))
	require.NoError(t, repo.Update(ctx, loaded))

	done, err = repo.CompletedMetaIDs(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, done["goal-split"], "all fragments done completes the unit")
}

func TestScheduleRepo_MaxEventDate(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	max, err := repo.MaxEventDate(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Nil(t, max)

	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{
		testEvent(day(0), 0, 30), testEvent(day(5), 0, 30),
	}))

	max, err = repo.MaxEventDate(ctx, "u1", "p1")
	require.NoError(t, err)
	require.NotNil(t, max)
	assert.True(t, max.Equal(day(5)))
}

func TestScheduleRepo_GetByIDNotFound(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleRepo_SumRecordedOn(t *testing.T) {
	database := newTestDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	a := testEvent(day(0), 0, 60)
	a.RecordedMin = 45
	b := testEvent(day(0), 1, 30)
	b.RecordedMin = 30
	other := testEvent(day(1), 0, 30)
	other.RecordedMin = 99
	require.NoError(t, repo.Insert(ctx, []domain.ScheduledEvent{a, b, other}))

	total, err := repo.SumRecordedOn(ctx, "u1", "p1", day(0))
	require.NoError(t, err)
	assert.Equal(t, 75, total)
}
