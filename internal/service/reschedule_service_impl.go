package service

import (
	"context"
	"time"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
	"github.com/insanusapp/planner/internal/scheduler"
)

type rescheduleService struct {
	schedule repository.ScheduleRepo
	profiles repository.ProfileRepo
	simul    repository.SimuladoRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewRescheduleService(
	schedule repository.ScheduleRepo,
	profiles repository.ProfileRepo,
	simul repository.SimuladoRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) RescheduleService {
	return &rescheduleService{
		schedule: schedule,
		profiles: profiles,
		simul:    simul,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Reschedule melts every pending event and re-casts the whole queue onto
// the calendar. Reviews go first, then general work in its original
// sequence; completed rows are never touched. The melt and the re-insert
// commit in one transaction, so a failed pass leaves the store exactly as
// it was. Running the pass twice with no intervening change moves nothing.
func (s *rescheduleService) Reschedule(ctx context.Context, req contract.RescheduleRequest) (*contract.RescheduleResponse, error) {
	started := time.Now()
	resp, err := s.reschedule(ctx, req)

	event := UseCaseEvent{
		Name:      "reschedule",
		StartedAt: started,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"trigger": string(req.Trigger)},
	}
	if resp != nil {
		event.Fields["melted"] = resp.MeltedCount
		event.Fields["moved"] = resp.MovedCount
	}
	s.observer.ObserveUseCase(ctx, event)
	return resp, err
}

func (s *rescheduleService) reschedule(ctx context.Context, req contract.RescheduleRequest) (*contract.RescheduleResponse, error) {
	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}
	today := domain.Day(now)
	anchor := today
	if req.PreserveToday {
		anchor = domain.NextDay(today)
	}

	profile, err := s.profiles.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !profile.Routine.HasBudget() {
		return nil, contract.NewScheduleError(contract.ErrNoBudget,
			"routine has no study time configured")
	}

	overdue, err := s.schedule.ListPendingBefore(ctx, req.UserID, req.PlanID, today, false)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.schedule.ListPendingFrom(ctx, req.UserID, req.PlanID, anchor)
	if err != nil {
		return nil, err
	}
	melted := append(overdue, upcoming...)

	resp := &contract.RescheduleResponse{Trigger: req.Trigger, ExecutedAt: now}
	if len(melted) == 0 {
		return resp, nil
	}

	cal, err := s.buildCalendar(ctx, req, profile.Routine, anchor, melted)
	if err != nil {
		return nil, err
	}

	units := scheduler.UnitsFromEvents(scheduler.MeltOrder(melted))
	recast, err := scheduler.Allocate(units, cal, anchor)
	if err != nil {
		if err == scheduler.ErrNoBudget {
			return nil, contract.NewScheduleError(contract.ErrNoBudget, err.Error())
		}
		return nil, err
	}
	stampEvents(recast, req.UserID, req.PlanID, now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedule := repository.NewSQLiteScheduleRepo(tx)
		for _, e := range melted {
			if err := txSchedule.Delete(ctx, e.ID); err != nil {
				return err
			}
		}
		return txSchedule.Insert(ctx, recast)
	})
	if err != nil {
		return nil, err
	}

	after := make([]*domain.ScheduledEvent, len(recast))
	for i := range recast {
		after[i] = &recast[i]
	}
	resp.MeltedCount = len(melted)
	resp.MovedCount = scheduler.CountMoved(melted, after)
	resp.FirstDate = recast[0].Date
	resp.LastDate = recast[len(recast)-1].Date
	return resp, nil
}

// buildCalendar blocks scheduled simulado dates and reserves budget and
// order slots for every row from the anchor onward that survives the
// pass (completed work, plus anything already recorded). A completed
// event days ahead must keep both its minutes and its ord, or the
// re-insert would collide with it.
func (s *rescheduleService) buildCalendar(ctx context.Context, req contract.RescheduleRequest, routine domain.Routine, anchor time.Time, melted []*domain.ScheduledEvent) (scheduler.Calendar, error) {
	cal := scheduler.NewCalendar(routine)

	attempts, err := s.simul.ListAttempts(ctx, req.UserID, req.PlanID)
	if err != nil {
		return cal, err
	}
	for _, a := range attempts {
		if a.Status == domain.SimuladoScheduled && !a.Date.Before(anchor) {
			cal.Block(a.Date)
		}
	}

	last, err := s.schedule.MaxEventDate(ctx, req.UserID, req.PlanID)
	if err != nil {
		return cal, err
	}
	if last == nil || last.Before(anchor) {
		return cal, nil
	}

	meltedIDs := make(map[string]bool, len(melted))
	for _, e := range melted {
		meltedIDs[e.ID] = true
	}
	horizon, err := s.schedule.GetRange(ctx, req.UserID, req.PlanID, anchor, *last)
	if err != nil {
		return cal, err
	}
	for _, e := range horizon {
		if !meltedIDs[e.ID] {
			cal.Reserve(e.Date, e.DurationMin, e.Order)
		}
	}
	return cal, nil
}
