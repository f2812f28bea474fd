package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/curriculum"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
)

type simuladoService struct {
	plans      repository.PlanRepo
	schedule   repository.ScheduleRepo
	simul      repository.SimuladoRepo
	reschedule RescheduleService
	logger     *slog.Logger
}

func NewSimuladoService(
	plans repository.PlanRepo,
	schedule repository.ScheduleRepo,
	simul repository.SimuladoRepo,
	reschedule RescheduleService,
	logger *slog.Logger,
) SimuladoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &simuladoService{
		plans:      plans,
		schedule:   schedule,
		simul:      simul,
		reschedule: reschedule,
		logger:     logger,
	}
}

// GateStatuses resolves every simulado gate of the plan against the
// student's completed work and existing attempts.
func (s *simuladoService) GateStatuses(ctx context.Context, userID, planID string) ([]contract.SimuladoGateView, error) {
	tree, err := s.plans.LoadTree(ctx, planID)
	if err != nil {
		return nil, err
	}
	_, gates := curriculum.Flatten(tree, s.logger)

	completed, err := s.schedule.CompletedMetaIDs(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.simul.ListAttempts(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	attemptBySimulado := make(map[string]*domain.UserSimulado, len(attempts))
	scheduled := make(map[string]bool, len(attempts))
	for _, a := range attempts {
		attemptBySimulado[a.SimuladoID] = a
		if a.Status == domain.SimuladoScheduled || a.Status == domain.SimuladoSubmitted {
			scheduled[a.SimuladoID] = true
		}
	}

	views := make([]contract.SimuladoGateView, 0, len(gates))
	for _, gate := range gates {
		status := curriculum.GateStatus(gate, completed, scheduled)
		attempt := attemptBySimulado[gate.Simulado.ID]
		if attempt != nil && attempt.Status == domain.SimuladoSubmitted {
			status = domain.SimuladoSubmitted
		}
		remaining := 0
		for _, id := range gate.RequiredMetaIDs {
			if !completed[id] {
				remaining++
			}
		}
		views = append(views, contract.SimuladoGateView{
			Simulado:  gate.Simulado,
			Status:    status,
			Remaining: remaining,
			Attempt:   attempt,
		})
	}
	return views, nil
}

// Schedule books a released simulado onto a full calendar day. The day
// becomes a hard block: any pending study previously sitting on it is
// displaced by the re-cast pass that follows.
func (s *simuladoService) Schedule(ctx context.Context, req contract.ScheduleSimuladoRequest) (*contract.ScheduleSimuladoResult, error) {
	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	views, err := s.GateStatuses(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}
	var view *contract.SimuladoGateView
	for i := range views {
		if views[i].Simulado.ID == req.SimuladoID {
			view = &views[i]
			break
		}
	}
	if view == nil {
		return nil, repository.ErrNotFound
	}
	switch view.Status {
	case domain.SimuladoBlocked:
		return nil, contract.NewScheduleError(contract.ErrSimuladoBlocked,
			"simulado is locked behind unfinished work")
	case domain.SimuladoScheduled, domain.SimuladoSubmitted:
		return nil, contract.NewScheduleError(contract.ErrDuplicateAttempt,
			"simulado already has an attempt")
	}

	date := domain.Day(req.Date)
	displaced, err := s.schedule.GetDay(ctx, req.UserID, req.PlanID, date)
	if err != nil {
		return nil, err
	}
	displacedCount := 0
	for _, e := range displaced {
		if e.IsPending() {
			displacedCount++
		}
	}

	attempt := &domain.UserSimulado{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		SimuladoID: req.SimuladoID,
		PlanID:     req.PlanID,
		Date:       date,
		Status:     domain.SimuladoScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.simul.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	result := &contract.ScheduleSimuladoResult{AttemptID: attempt.ID, Date: date, Displaced: displacedCount}
	if displacedCount > 0 {
		rreq := contract.NewRescheduleRequest(req.UserID, req.PlanID, domain.TriggerSimulado)
		rreq.PreserveToday = true
		rreq.Now = &now
		resp, err := s.reschedule.Reschedule(ctx, rreq)
		if err != nil {
			return nil, err
		}
		result.MovedCount = resp.MovedCount
	}
	return result, nil
}

// Submit records the attempt's score. Duplicate submissions bounce off
// the domain guard before any state changes.
func (s *simuladoService) Submit(ctx context.Context, req contract.SubmitSimuladoRequest) (*domain.UserSimulado, error) {
	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	attempt, err := s.simul.GetAttempt(ctx, req.UserID, req.SimuladoID)
	if err != nil {
		return nil, err
	}
	if err := attempt.Submit(req.Score, now); err != nil {
		return nil, contract.NewScheduleError(contract.ErrDuplicateAttempt, err.Error())
	}
	if err := s.simul.UpdateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}
