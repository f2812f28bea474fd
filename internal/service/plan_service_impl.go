package service

import (
	"context"
	"time"

	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
)

type planService struct {
	plans repository.PlanRepo
}

func NewPlanService(plans repository.PlanRepo) PlanService {
	return &planService{plans: plans}
}

func (s *planService) GetByShortID(ctx context.Context, shortID string) (*domain.Plan, error) {
	return s.plans.GetByShortID(ctx, shortID)
}

func (s *planService) List(ctx context.Context) ([]*domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *planService) Publish(ctx context.Context, shortID string) (*domain.Plan, error) {
	plan, err := s.plans.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Publish(ctx, plan.ID, time.Now()); err != nil {
		return nil, err
	}
	return s.plans.GetByID(ctx, plan.ID)
}

func (s *planService) Delete(ctx context.Context, shortID string) error {
	plan, err := s.plans.GetByShortID(ctx, shortID)
	if err != nil {
		return err
	}
	return s.plans.Delete(ctx, plan.ID)
}
