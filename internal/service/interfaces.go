package service

import (
	"context"
	"time"

	"github.com/insanusapp/planner/internal/contract"
	"github.com/insanusapp/planner/internal/domain"
	"github.com/insanusapp/planner/internal/importer"
)

type PlanService interface {
	GetByShortID(ctx context.Context, shortID string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	Publish(ctx context.Context, shortID string) (*domain.Plan, error)
	Delete(ctx context.Context, shortID string) error
}

type ScheduleService interface {
	Generate(ctx context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error)
	Today(ctx context.Context, userID, planID string, now time.Time) (*contract.DaySchedule, error)
	GetRange(ctx context.Context, userID, planID string, from, to time.Time) ([]contract.DaySchedule, error)
}

type RescheduleService interface {
	Reschedule(ctx context.Context, req contract.RescheduleRequest) (*contract.RescheduleResponse, error)
}

type StudyService interface {
	CompleteEvent(ctx context.Context, userID, eventID string, now time.Time) (*contract.CompleteResult, error)
	LogStudy(ctx context.Context, req contract.LogStudyRequest) (*contract.LogStudyResult, error)
	AcceptMerge(ctx context.Context, userID, eventID string) (*contract.MergeResult, error)
	RecentLogs(ctx context.Context, userID string, days int) ([]*domain.StudyLog, error)
}

type AnticipationService interface {
	Offer(ctx context.Context, userID, planID string, now time.Time) (*contract.AnticipationOffer, error)
	Accept(ctx context.Context, userID, planID string, offer *contract.AnticipationOffer) (*contract.AnticipationResult, error)
}

type SimuladoService interface {
	GateStatuses(ctx context.Context, userID, planID string) ([]contract.SimuladoGateView, error)
	Schedule(ctx context.Context, req contract.ScheduleSimuladoRequest) (*contract.ScheduleSimuladoResult, error)
	Submit(ctx context.Context, req contract.SubmitSimuladoRequest) (*domain.UserSimulado, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.StudyProfile, error)
	Update(ctx context.Context, p *domain.StudyProfile) error
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Plan            *domain.Plan
	DisciplineCount int
	TopicCount      int
	GoalCount       int
	SimuladoCount   int
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.PlanSchema) (*ImportResult, error)
}
