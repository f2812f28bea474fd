package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/curriculum"
	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
	"github.com/insanusapp/planner/internal/scheduler"
)

type scheduleService struct {
	plans    repository.PlanRepo
	schedule repository.ScheduleRepo
	profiles repository.ProfileRepo
	simul    repository.SimuladoRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
}

func NewScheduleService(
	plans repository.PlanRepo,
	schedule repository.ScheduleRepo,
	profiles repository.ProfileRepo,
	simul repository.SimuladoRepo,
	uow db.UnitOfWork,
	logger *slog.Logger,
) ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleService{
		plans:    plans,
		schedule: schedule,
		profiles: profiles,
		simul:    simul,
		uow:      uow,
		logger:   logger,
	}
}

// Generate flattens the published curriculum and packs it into calendar
// days from the start date. A sync run first drops every pending row and
// filters out goals the student already completed, so republished plans
// fold in without touching history.
func (s *scheduleService) Generate(ctx context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error) {
	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanPublished {
		return nil, contract.NewScheduleError(contract.ErrPlanNotPublished,
			"plan "+plan.DisplayID()+" is not published")
	}

	tree, err := s.plans.LoadTree(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	units, _ := curriculum.Flatten(tree, s.logger)

	start := domain.Day(time.Now())
	if req.StartDate != nil {
		start = domain.Day(*req.StartDate)
	}

	skipped := 0
	if req.Sync {
		done, err := s.schedule.CompletedMetaIDs(ctx, req.UserID, req.PlanID)
		if err != nil {
			return nil, err
		}
		kept := units[:0]
		for _, u := range units {
			if done[u.MetaID] {
				skipped++
				continue
			}
			kept = append(kept, u)
		}
		units = kept
	}

	profile, err := s.profiles.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	cal, err := s.buildCalendar(ctx, req.UserID, req.PlanID, profile.Routine, start)
	if err != nil {
		return nil, err
	}

	events, err := scheduler.Allocate(units, cal, start)
	if err != nil {
		if err == scheduler.ErrNoBudget {
			return nil, contract.NewScheduleError(contract.ErrNoBudget, err.Error())
		}
		return nil, err
	}
	now := time.Now()
	stampEvents(events, req.UserID, req.PlanID, now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedule := repository.NewSQLiteScheduleRepo(tx)
		if err := txSchedule.DeleteAllPending(ctx, req.UserID, req.PlanID); err != nil {
			return err
		}
		return txSchedule.Insert(ctx, events)
	})
	if err != nil {
		return nil, err
	}

	resp := &contract.GenerateResponse{
		GeneratedAt: now,
		EventCount:  len(events),
		SkippedDone: skipped,
	}
	if len(events) > 0 {
		resp.FirstDate = events[0].Date
		resp.LastDate = events[len(events)-1].Date
	}
	return resp, nil
}

func (s *scheduleService) Today(ctx context.Context, userID, planID string, now time.Time) (*contract.DaySchedule, error) {
	date := domain.Day(now)
	events, err := s.schedule.GetDay(ctx, userID, planID, date)
	if err != nil {
		return nil, err
	}
	return &contract.DaySchedule{Date: date, Events: events}, nil
}

func (s *scheduleService) GetRange(ctx context.Context, userID, planID string, from, to time.Time) ([]contract.DaySchedule, error) {
	events, err := s.schedule.GetRange(ctx, userID, planID, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, err
	}

	var days []contract.DaySchedule
	for _, e := range events {
		if n := len(days); n == 0 || !days[n-1].Date.Equal(e.Date) {
			days = append(days, contract.DaySchedule{Date: e.Date})
		}
		days[len(days)-1].Events = append(days[len(days)-1].Events, e)
	}
	return days, nil
}

// buildCalendar assembles the allocation calendar: the weekday routine,
// full-day blocks for scheduled simulados, and a reservation for every
// completed row from the start date onward. History keeps its minutes
// and its order slots on whatever day it sits.
func (s *scheduleService) buildCalendar(ctx context.Context, userID, planID string, routine domain.Routine, start time.Time) (scheduler.Calendar, error) {
	cal := scheduler.NewCalendar(routine)

	attempts, err := s.simul.ListAttempts(ctx, userID, planID)
	if err != nil {
		return cal, err
	}
	for _, a := range attempts {
		if a.Status == domain.SimuladoScheduled && !a.Date.Before(start) {
			cal.Block(a.Date)
		}
	}

	last, err := s.schedule.MaxEventDate(ctx, userID, planID)
	if err != nil {
		return cal, err
	}
	if last == nil || last.Before(start) {
		return cal, nil
	}
	horizon, err := s.schedule.GetRange(ctx, userID, planID, start, *last)
	if err != nil {
		return cal, err
	}
	for _, e := range horizon {
		if !e.IsPending() {
			cal.Reserve(e.Date, e.DurationMin, e.Order)
		}
	}
	return cal, nil
}

// stampEvents assigns identity and timestamps to freshly allocated events.
func stampEvents(events []domain.ScheduledEvent, userID, planID string, now time.Time) {
	for i := range events {
		events[i].ID = uuid.New().String()
		events[i].UserID = userID
		events[i].PlanID = planID
		events[i].CreatedAt = now
		events[i].UpdatedAt = now
	}
}
