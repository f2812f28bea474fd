package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
	"github.com/insanusapp/planner/internal/testutil"
)

const (
	testUser = "u1"
)

// monday is a fixed anchor date so weekday budgets are deterministic.
var monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local)

// weekdayRoutine carries 60 minutes Monday through Friday.
var weekdayRoutine = domain.Routine{0, 60, 60, 60, 60, 60, 0}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type env struct {
	db       *sql.DB
	uow      db.UnitOfWork
	plans    *repository.SQLitePlanRepo
	curr     *repository.SQLiteCurriculumRepo
	schedule *repository.SQLiteScheduleRepo
	profiles *repository.SQLiteProfileRepo
	simul    *repository.SQLiteSimuladoRepo
	logs     *repository.SQLiteStudyLogRepo

	scheduleSvc     ScheduleService
	rescheduleSvc   RescheduleService
	studySvc        StudyService
	anticipationSvc AnticipationService
	simuladoSvc     SimuladoService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	e := &env{
		db:       database,
		uow:      uow,
		plans:    repository.NewSQLitePlanRepo(database),
		curr:     repository.NewSQLiteCurriculumRepo(database),
		schedule: repository.NewSQLiteScheduleRepo(database),
		profiles: repository.NewSQLiteProfileRepo(database),
		simul:    repository.NewSQLiteSimuladoRepo(database),
		logs:     repository.NewSQLiteStudyLogRepo(database),
	}
	logger := quietLogger()
	e.scheduleSvc = NewScheduleService(e.plans, e.schedule, e.profiles, e.simul, uow, logger)
	e.rescheduleSvc = NewRescheduleService(e.schedule, e.profiles, e.simul, uow)
	e.studySvc = NewStudyService(e.schedule, e.logs, e.curr, e.profiles, uow, e.rescheduleSvc, logger)
	e.anticipationSvc = NewAnticipationService(e.schedule, e.profiles, uow, e.rescheduleSvc)
	e.simuladoSvc = NewSimuladoService(e.plans, e.schedule, e.simul, e.rescheduleSvc, logger)
	return e
}

func (e *env) withProfile(t *testing.T, planID string, routine domain.Routine) {
	t.Helper()
	require.NoError(t, e.profiles.Upsert(context.Background(),
		testutil.NewTestProfile(testUser, planID, routine)))
}

// seedPlan writes a small published curriculum: one discipline, one
// topic, three goals (the first with review intervals), one simulado
// gated after all goals.
func (e *env) seedPlan(t *testing.T) *domain.Plan {
	t.Helper()
	ctx := context.Background()

	plan := testutil.NewTestPlan("TRF 6ª Região")
	require.NoError(t, e.plans.Create(ctx, plan))

	disc := &domain.Discipline{ID: uuid.NewString(), PlanID: plan.ID, Name: "Português", Color: "#b8bb26"}
	require.NoError(t, e.curr.CreateDiscipline(ctx, disc))
	topic := &domain.Topic{ID: uuid.NewString(), DisciplineID: disc.ID, Name: "Crase"}
	require.NoError(t, e.curr.CreateTopic(ctx, topic))

	goals := []*domain.Goal{
		{ID: uuid.NewString(), TopicID: topic.ID, Title: "Aula 01", Type: domain.GoalLesson, DurationMin: 40, Position: 0, ReviewIntervals: "1,7"},
		{ID: uuid.NewString(), TopicID: topic.ID, Title: "Material 01", Type: domain.GoalMaterial, DurationMin: 40, Position: 1},
		{ID: uuid.NewString(), TopicID: topic.ID, Title: "Questões 01", Type: domain.GoalQuestions, DurationMin: 40, Position: 2},
	}
	for _, g := range goals {
		require.NoError(t, e.curr.CreateGoal(ctx, g))
	}

	sim := &domain.Simulado{ID: uuid.NewString(), PlanID: plan.ID, Title: "Simulado 1", DurationMin: 240}
	require.NoError(t, e.curr.CreateSimulado(ctx, sim))

	cycle := &domain.Cycle{ID: uuid.NewString(), PlanID: plan.ID, Name: "Ciclo 1"}
	require.NoError(t, e.curr.CreateCycle(ctx, cycle))
	require.NoError(t, e.curr.CreateCycleItem(ctx, &domain.CycleItem{
		ID: uuid.NewString(), CycleID: cycle.ID, Position: 0, Kind: domain.ItemTopic, TopicID: topic.ID,
	}))
	require.NoError(t, e.curr.CreateCycleItem(ctx, &domain.CycleItem{
		ID: uuid.NewString(), CycleID: cycle.ID, Position: 1, Kind: domain.ItemSimulado, SimuladoID: sim.ID,
	}))
	return plan
}

func (e *env) insert(t *testing.T, events ...domain.ScheduledEvent) {
	t.Helper()
	require.NoError(t, e.schedule.Insert(context.Background(), events))
}

func (e *env) pendingFrom(t *testing.T, planID string, from time.Time) []*domain.ScheduledEvent {
	t.Helper()
	events, err := e.schedule.ListPendingFrom(context.Background(), testUser, planID, from)
	require.NoError(t, err)
	return events
}
