package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
)

// SQLiteCurriculumRepo implements CurriculumRepo. The importer runs all
// of these inside one transaction so a half-imported plan never lands.
type SQLiteCurriculumRepo struct {
	db db.DBTX
}

func NewSQLiteCurriculumRepo(dbtx db.DBTX) *SQLiteCurriculumRepo {
	return &SQLiteCurriculumRepo{db: dbtx}
}

func (r *SQLiteCurriculumRepo) CreateDiscipline(ctx context.Context, d *domain.Discipline) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO disciplines (id, plan_id, name, color, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.PlanID, d.Name, d.Color, d.Position,
		timestamp(d.CreatedAt), timestamp(d.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating discipline %s: %w", d.Name, err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) CreateTopic(ctx context.Context, t *domain.Topic) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO topics (id, discipline_id, name, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.DisciplineID, t.Name, t.Position,
		timestamp(t.CreatedAt), timestamp(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating topic %s: %w", t.Name, err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) CreateGoal(ctx context.Context, g *domain.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, topic_id, title, type, duration_min, position,
			review_intervals, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.TopicID, g.Title, string(g.Type), g.DurationMin, g.Position,
		g.ReviewIntervals, timestamp(g.CreatedAt), timestamp(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating goal %s: %w", g.Title, err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) CreateCycle(ctx context.Context, c *domain.Cycle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cycles (id, plan_id, name, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.PlanID, c.Name, c.Position,
		timestamp(c.CreatedAt), timestamp(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating cycle %s: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) CreateCycleItem(ctx context.Context, i *domain.CycleItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cycle_items (id, cycle_id, position, kind, topic_id,
			simulado_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.CycleID, i.Position, string(i.Kind), i.TopicID, i.SimuladoID,
		timestamp(i.CreatedAt), timestamp(i.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating cycle item: %w", err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) CreateSimulado(ctx context.Context, s *domain.Simulado) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO simulados (id, plan_id, title, duration_min, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.PlanID, s.Title, s.DurationMin, s.Position,
		timestamp(s.CreatedAt), timestamp(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating simulado %s: %w", s.Title, err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	var g domain.Goal
	var typ, created, updated string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, topic_id, title, type, duration_min, position,
			review_intervals, created_at, updated_at
		FROM goals WHERE id = ?`, id).Scan(
		&g.ID, &g.TopicID, &g.Title, &typ, &g.DurationMin, &g.Position,
		&g.ReviewIntervals, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting goal %s: %w", id, err)
	}
	g.Type = domain.GoalType(typ)
	g.CreatedAt = parseTimestamp(created)
	g.UpdatedAt = parseTimestamp(updated)
	return &g, nil
}
