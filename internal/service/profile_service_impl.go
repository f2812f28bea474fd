package service

import (
	"context"
	"fmt"

	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/repository"
)

type profileService struct {
	profiles repository.ProfileRepo
}

func NewProfileService(profiles repository.ProfileRepo) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.StudyProfile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *profileService) Update(ctx context.Context, p *domain.StudyProfile) error {
	if err := p.Routine.Validate(); err != nil {
		return err
	}
	if t := p.SmartMergeTolerance; t != 0 &&
		(t < domain.MinMergeToleranceMin || t > domain.MaxMergeToleranceMin) {
		return fmt.Errorf("smart-merge tolerance must be between %d and %d minutes, got %d",
			domain.MinMergeToleranceMin, domain.MaxMergeToleranceMin, t)
	}
	return s.profiles.Upsert(ctx, p)
}
