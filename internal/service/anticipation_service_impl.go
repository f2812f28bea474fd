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

type anticipationService struct {
	schedule   repository.ScheduleRepo
	profiles   repository.ProfileRepo
	uow        db.UnitOfWork
	reschedule RescheduleService
}

func NewAnticipationService(
	schedule repository.ScheduleRepo,
	profiles repository.ProfileRepo,
	uow db.UnitOfWork,
	reschedule RescheduleService,
) AnticipationService {
	return &anticipationService{
		schedule:   schedule,
		profiles:   profiles,
		uow:        uow,
		reschedule: reschedule,
	}
}

// Offer computes the prefix of tomorrow-onward work that fits what is
// left of today. Anticipation is strictly a reward for a clean slate:
// any pending work today or overdue work disqualifies the offer.
func (s *anticipationService) Offer(ctx context.Context, userID, planID string, now time.Time) (*contract.AnticipationOffer, error) {
	today := domain.Day(now)

	todayEvents, err := s.schedule.GetDay(ctx, userID, planID, today)
	if err != nil {
		return nil, err
	}
	for _, e := range todayEvents {
		if e.IsPending() {
			return nil, contract.NewScheduleError(contract.ErrNothingToOffer,
				"today still has pending work")
		}
	}

	overdue, err := s.schedule.ListPendingBefore(ctx, userID, planID, today, false)
	if err != nil {
		return nil, err
	}
	if len(overdue) > 0 {
		return nil, contract.NewScheduleError(contract.ErrNothingToOffer,
			"overdue work must be rescheduled first")
	}

	queue, err := s.schedule.ListPendingFrom(ctx, userID, planID, domain.NextDay(today))
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, contract.NewScheduleError(contract.ErrNothingToOffer,
			"nothing ahead to anticipate")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	recorded, err := s.schedule.SumRecordedOn(ctx, userID, planID, today)
	if err != nil {
		return nil, err
	}

	budget := scheduler.AnticipationBudget(scheduler.BudgetInput{
		Now:              now,
		RoutineMin:       profile.Routine.MinutesFor(today),
		RecordedTodayMin: recorded,
	})
	if budget <= 0 {
		return nil, contract.NewScheduleError(contract.ErrNothingToOffer,
			"no usable time left today")
	}

	selected := scheduler.SelectPrefix(queue, budget)
	if len(selected) == 0 {
		return nil, contract.NewScheduleError(contract.ErrNothingToOffer,
			"the next unit does not fit the remaining time")
	}

	offer := &contract.AnticipationOffer{Date: today, BudgetMin: budget, Events: selected}
	for _, e := range selected {
		offer.TotalMin += e.DurationMin
	}
	return offer, nil
}

// Accept pulls the offered events onto today and re-casts the future
// queue so the vacated days compact forward.
func (s *anticipationService) Accept(ctx context.Context, userID, planID string, offer *contract.AnticipationOffer) (*contract.AnticipationResult, error) {
	result := &contract.AnticipationResult{}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedule := repository.NewSQLiteScheduleRepo(tx)
		ord, err := txSchedule.NextOrder(ctx, userID, planID, offer.Date)
		if err != nil {
			return err
		}
		for _, e := range offer.Events {
			moved, err := txSchedule.GetByID(ctx, e.ID)
			if err != nil {
				return err
			}
			if !moved.IsPending() {
				continue
			}
			moved.Date = offer.Date
			moved.Order = ord
			ord++
			if err := txSchedule.Update(ctx, moved); err != nil {
				return err
			}
			result.MovedCount++
			result.MovedMin += moved.DurationMin
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req := contract.NewRescheduleRequest(userID, planID, domain.TriggerAnticipation)
	req.PreserveToday = true
	// Anchor the compaction pass on the day the offer was computed for.
	anchor := offer.Date
	req.Now = &anchor
	resp, err := s.reschedule.Reschedule(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Backfilled = resp.MovedCount
	return result, nil
}
