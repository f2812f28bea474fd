package repository

import (
	"context"
	"errors"
	"time"

	"github.com/insanusapp/planner/internal/curriculum"
	"github.com/insanusapp/planner/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	Publish(ctx context.Context, id string, now time.Time) error
	Delete(ctx context.Context, id string) error
	// LoadTree assembles the full curriculum of a plan for flattening.
	LoadTree(ctx context.Context, planID string) (*curriculum.Tree, error)
}

// CurriculumRepo persists the authored plan structure. Used by the
// importer inside one transaction.
type CurriculumRepo interface {
	CreateDiscipline(ctx context.Context, d *domain.Discipline) error
	CreateTopic(ctx context.Context, t *domain.Topic) error
	CreateGoal(ctx context.Context, g *domain.Goal) error
	CreateCycle(ctx context.Context, c *domain.Cycle) error
	CreateCycleItem(ctx context.Context, i *domain.CycleItem) error
	CreateSimulado(ctx context.Context, s *domain.Simulado) error
	GetGoal(ctx context.Context, id string) (*domain.Goal, error)
}

// ScheduleRepo is the persisted schedule store: events grouped per
// (user, plan, date), ordered within the day. Range mutations are meant
// to run tx-scoped via the unit of work so a melt-and-recast is atomic.
type ScheduleRepo interface {
	Insert(ctx context.Context, events []domain.ScheduledEvent) error
	Update(ctx context.Context, e *domain.ScheduledEvent) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ScheduledEvent, error)
	GetRange(ctx context.Context, userID, planID string, from, to time.Time) ([]*domain.ScheduledEvent, error)
	GetDay(ctx context.Context, userID, planID string, date time.Time) ([]*domain.ScheduledEvent, error)
	// ListPendingBefore returns pending events strictly before cutoff,
	// or on the cutoff day too when inclusive is set.
	ListPendingBefore(ctx context.Context, userID, planID string, cutoff time.Time, inclusive bool) ([]*domain.ScheduledEvent, error)
	// ListPendingFrom returns pending events on or after from, in
	// (date, ord) order.
	ListPendingFrom(ctx context.Context, userID, planID string, from time.Time) ([]*domain.ScheduledEvent, error)
	DeleteAllPending(ctx context.Context, userID, planID string) error
	MaxEventDate(ctx context.Context, userID, planID string) (*time.Time, error)
	NextOrder(ctx context.Context, userID, planID string, date time.Time) (int, error)
	CompletedMetaIDs(ctx context.Context, userID, planID string) (map[string]bool, error)
	SumRecordedOn(ctx context.Context, userID, planID string, date time.Time) (int, error)
}

type ProfileRepo interface {
	Get(ctx context.Context, userID string) (*domain.StudyProfile, error)
	Upsert(ctx context.Context, p *domain.StudyProfile) error
}

type SimuladoRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Simulado, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Simulado, error)
	CreateAttempt(ctx context.Context, a *domain.UserSimulado) error
	GetAttempt(ctx context.Context, userID, simuladoID string) (*domain.UserSimulado, error)
	ListAttempts(ctx context.Context, userID, planID string) ([]*domain.UserSimulado, error)
	UpdateAttempt(ctx context.Context, a *domain.UserSimulado) error
}

type StudyLogRepo interface {
	Create(ctx context.Context, l *domain.StudyLog) error
	ListByEvent(ctx context.Context, eventID string) ([]*domain.StudyLog, error)
	ListRecent(ctx context.Context, userID string, days int) ([]*domain.StudyLog, error)
}
