package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
	"github.com/insanusapp/planner/internal/scheduler"
)

type studyService struct {
	schedule   repository.ScheduleRepo
	logs       repository.StudyLogRepo
	curr       repository.CurriculumRepo
	profiles   repository.ProfileRepo
	uow        db.UnitOfWork
	reschedule RescheduleService
	logger     *slog.Logger
}

func NewStudyService(
	schedule repository.ScheduleRepo,
	logs repository.StudyLogRepo,
	curr repository.CurriculumRepo,
	profiles repository.ProfileRepo,
	uow db.UnitOfWork,
	reschedule RescheduleService,
	logger *slog.Logger,
) StudyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &studyService{
		schedule:   schedule,
		logs:       logs,
		curr:       curr,
		profiles:   profiles,
		uow:        uow,
		reschedule: reschedule,
		logger:     logger,
	}
}

// CompleteEvent marks the event done and spawns its spaced reviews. The
// completion commits on its own; review placement failures degrade to
// warnings so a broken review never rolls back the completion itself.
func (s *studyService) CompleteEvent(ctx context.Context, userID, eventID string, now time.Time) (*contract.CompleteResult, error) {
	var event *domain.ScheduledEvent
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedule := repository.NewSQLiteScheduleRepo(tx)
		e, err := txSchedule.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if e.UserID != userID {
			return repository.ErrNotFound
		}
		if err := e.MarkCompleted(now); err != nil {
			return err
		}
		if err := txSchedule.Update(ctx, e); err != nil {
			return err
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &contract.CompleteResult{EventID: eventID, CompletedAt: now}
	if event.IsReview() {
		return result, nil
	}

	intervals := s.reviewIntervalsFor(ctx, event)
	for _, placement := range scheduler.ReviewUnits(event, intervals, now) {
		if err := s.placeReview(ctx, event, placement); err != nil {
			s.logger.Warn("review placement failed",
				"event_id", eventID, "date", placement.Date.Format("2006-01-02"), "error", err)
			result.ReviewWarnings = append(result.ReviewWarnings,
				fmt.Sprintf("review on %s not placed: %v", placement.Date.Format("2006-01-02"), err))
			continue
		}
		result.ReviewsSpawned++
		result.ReviewDates = append(result.ReviewDates, placement.Date)
	}
	return result, nil
}

func (s *studyService) reviewIntervalsFor(ctx context.Context, event *domain.ScheduledEvent) []int {
	goal, err := s.curr.GetGoal(ctx, event.MetaID)
	if err != nil {
		// A goal can vanish after a republish; the completion stands.
		s.logger.Warn("goal lookup for review intervals failed",
			"meta_id", event.MetaID, "error", err)
		return nil
	}
	return scheduler.ParseReviewIntervals(goal.ReviewIntervals)
}

// placeReview lands a review on its exact repetition date. Interval
// correctness wins over budget purity: the date never shifts, even onto
// a day with no routine budget.
func (s *studyService) placeReview(ctx context.Context, src *domain.ScheduledEvent, placement scheduler.ReviewPlacement) error {
	ord, err := s.schedule.NextOrder(ctx, src.UserID, src.PlanID, placement.Date)
	if err != nil {
		return err
	}
	u := placement.Unit
	now := time.Now()
	return s.schedule.Insert(ctx, []domain.ScheduledEvent{{
		ID:              uuid.New().String(),
		UserID:          src.UserID,
		PlanID:          src.PlanID,
		Date:            placement.Date,
		MetaID:          u.MetaID,
		Type:            u.Type,
		Title:           u.Title,
		DisciplineName:  u.DisciplineName,
		TopicName:       u.TopicName,
		Color:           u.Color,
		DurationMin:     u.DurationMin,
		Order:           ord,
		Status:          domain.EventPending,
		OriginalEventID: u.OriginalEventID,
		ReviewLabel:     u.ReviewLabel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}})
}

// LogStudy records a study stretch against an event. When the recorded
// total overruns the allotted duration within the smart-merge tolerance
// and later fragments of the same unit exist, a merge offer comes back
// with the result.
func (s *studyService) LogStudy(ctx context.Context, req contract.LogStudyRequest) (*contract.LogStudyResult, error) {
	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	var event *domain.ScheduledEvent
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedule := repository.NewSQLiteScheduleRepo(tx)
		txLogs := repository.NewSQLiteStudyLogRepo(tx)

		e, err := txSchedule.GetByID(ctx, req.EventID)
		if err != nil {
			return err
		}
		if e.UserID != req.UserID {
			return repository.ErrNotFound
		}
		if err := e.ApplyStudy(req.Minutes, now); err != nil {
			return err
		}
		if err := txSchedule.Update(ctx, e); err != nil {
			return err
		}
		if err := txLogs.Create(ctx, &domain.StudyLog{
			ID:        uuid.New().String(),
			UserID:    req.UserID,
			EventID:   req.EventID,
			StartedAt: now.Add(-time.Duration(req.Minutes) * time.Minute),
			Minutes:   req.Minutes,
			Note:      req.Note,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &contract.LogStudyResult{EventID: event.ID, RecordedMin: event.RecordedMin}
	sessions, err := s.logs.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	result.Sessions = len(sessions)

	profile, err := s.profiles.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	tolerance := profile.EffectiveTolerance()
	overflow := event.Overflow()
	if !scheduler.MergeEligible(overflow, tolerance) {
		return result, nil
	}

	fragments, err := s.followOnFragments(ctx, event)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return result, nil
	}
	result.Offer = &contract.MergeOffer{
		EventID:      event.ID,
		Title:        event.Title,
		OverflowMin:  overflow,
		ToleranceMin: tolerance,
	}
	return result, nil
}

// AcceptMerge folds the event's overflow into its later fragments: each
// fragment shrinks by the absorbed minutes, vanishing entirely when fully
// absorbed, and the running event's duration grows by the same amount.
// Total planned minutes for the unit stay conserved. The shrink frees
// budget on the fragments' days, so a gap-fill pass runs afterwards and
// pulls later work into the vacated minutes.
func (s *studyService) AcceptMerge(ctx context.Context, userID, eventID string) (*contract.MergeResult, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	tolerance := profile.EffectiveTolerance()

	var result *contract.MergeResult
	var planID string
	var mergedDate time.Time
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSchedule := repository.NewSQLiteScheduleRepo(tx)
		event, err := txSchedule.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.UserID != userID {
			return repository.ErrNotFound
		}
		planID = event.PlanID
		mergedDate = event.Date
		overflow := event.Overflow()
		if !scheduler.MergeEligible(overflow, tolerance) {
			return contract.NewScheduleError(contract.ErrNothingToOffer,
				fmt.Sprintf("overflow of %d min is outside the %d min tolerance", overflow, tolerance))
		}

		fragments, err := followOnFragmentsTx(ctx, txSchedule, event)
		if err != nil {
			return err
		}
		available := 0
		for _, f := range fragments {
			available += f.DurationMin
		}
		absorbed := overflow
		if available < absorbed {
			absorbed = available
		}
		if absorbed == 0 {
			return contract.NewScheduleError(contract.ErrNothingToOffer,
				"no later fragments of this unit to absorb the overflow")
		}

		shrunk, removed := scheduler.AbsorbOverflow(fragments, absorbed)
		for _, f := range shrunk {
			if err := txSchedule.Update(ctx, f); err != nil {
				return err
			}
		}
		for _, id := range removed {
			if err := txSchedule.Delete(ctx, id); err != nil {
				return err
			}
		}

		event.DurationMin += absorbed
		event.ExtensionMin += absorbed
		if err := txSchedule.Update(ctx, event); err != nil {
			return err
		}

		result = &contract.MergeResult{
			EventID:       eventID,
			AbsorbedMin:   absorbed,
			ShrunkEvents:  len(shrunk),
			RemovedEvents: len(removed),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-cast from the day after the merged event so later work compacts
	// into the minutes the shrink just freed.
	req := contract.NewRescheduleRequest(userID, planID, domain.TriggerMerge)
	req.PreserveToday = true
	anchor := mergedDate
	req.Now = &anchor
	resp, err := s.reschedule.Reschedule(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Backfilled = resp.MovedCount
	return result, nil
}

// RecentLogs returns the student's study history over the last days,
// newest first.
func (s *studyService) RecentLogs(ctx context.Context, userID string, days int) ([]*domain.StudyLog, error) {
	return s.logs.ListRecent(ctx, userID, days)
}

func (s *studyService) followOnFragments(ctx context.Context, event *domain.ScheduledEvent) ([]*domain.ScheduledEvent, error) {
	return followOnFragmentsTx(ctx, s.schedule, event)
}

// followOnFragmentsTx lists pending later fragments of the same unit, in
// schedule order.
func followOnFragmentsTx(ctx context.Context, schedule repository.ScheduleRepo, event *domain.ScheduledEvent) ([]*domain.ScheduledEvent, error) {
	pending, err := schedule.ListPendingFrom(ctx, event.UserID, event.PlanID, domain.NextDay(event.Date))
	if err != nil {
		return nil, err
	}
	var fragments []*domain.ScheduledEvent
	for _, e := range pending {
		if e.MetaID == event.MetaID && e.ReviewLabel == event.ReviewLabel && e.ID != event.ID {
			fragments = append(fragments, e)
		}
	}
	return fragments, nil
}
