package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/insanusapp/planner/internal/curriculum"
	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
)

const planColumns = `id, short_id, name, status, published_at, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo over SQLite.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(dbtx db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: dbtx}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plans (`+planColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ShortID, p.Name, string(p.Status),
		nullableTimeToString(p.PublishedAt, time.RFC3339),
		timestamp(p.CreatedAt), timestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating plan %s: %w", p.ShortID, err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
}

func (r *SQLitePlanRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM plans WHERE short_id = ?`, shortID)
}

func (r *SQLitePlanRepo) getOne(ctx context.Context, query string, arg any) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	return p, nil
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+planColumns+` FROM plans ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var out []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Publish marks a plan published and stamps published_at. Republishing a
// plan bumps the stamp, which is what schedule sync compares against.
func (r *SQLitePlanRepo) Publish(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plans SET status = 'published', published_at = ?, updated_at = ?
		WHERE id = ?`,
		now.UTC().Format(time.RFC3339), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("publishing plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("publishing plan %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadTree loads a plan's full curriculum in one pass per table. Cycle
// items keep whatever they reference; dangling ids stay in the maps'
// blind spots and are handled downstream.
func (r *SQLitePlanRepo) LoadTree(ctx context.Context, planID string) (*curriculum.Tree, error) {
	plan, err := r.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	tree := &curriculum.Tree{
		Plan:         plan,
		ItemsByCycle: make(map[string][]*domain.CycleItem),
		Disciplines:  make(map[string]*domain.Discipline),
		Topics:       make(map[string]*domain.Topic),
		GoalsByTopic: make(map[string][]*domain.Goal),
		Simulados:    make(map[string]*domain.Simulado),
	}

	if err := r.loadDisciplines(ctx, planID, tree); err != nil {
		return nil, err
	}
	if err := r.loadTopics(ctx, planID, tree); err != nil {
		return nil, err
	}
	if err := r.loadGoals(ctx, planID, tree); err != nil {
		return nil, err
	}
	if err := r.loadCycles(ctx, planID, tree); err != nil {
		return nil, err
	}
	if err := r.loadSimulados(ctx, planID, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (r *SQLitePlanRepo) loadDisciplines(ctx context.Context, planID string, tree *curriculum.Tree) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, name, color, position, created_at, updated_at
		FROM disciplines WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return fmt.Errorf("loading disciplines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.Discipline
		var created, updated string
		if err := rows.Scan(&d.ID, &d.PlanID, &d.Name, &d.Color, &d.Position, &created, &updated); err != nil {
			return fmt.Errorf("scanning discipline: %w", err)
		}
		d.CreatedAt = parseTimestamp(created)
		d.UpdatedAt = parseTimestamp(updated)
		tree.Disciplines[d.ID] = &d
	}
	return rows.Err()
}

func (r *SQLitePlanRepo) loadTopics(ctx context.Context, planID string, tree *curriculum.Tree) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.discipline_id, t.name, t.position, t.created_at, t.updated_at
		FROM topics t JOIN disciplines d ON d.id = t.discipline_id
		WHERE d.plan_id = ? ORDER BY t.position`, planID)
	if err != nil {
		return fmt.Errorf("loading topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t domain.Topic
		var created, updated string
		if err := rows.Scan(&t.ID, &t.DisciplineID, &t.Name, &t.Position, &created, &updated); err != nil {
			return fmt.Errorf("scanning topic: %w", err)
		}
		t.CreatedAt = parseTimestamp(created)
		t.UpdatedAt = parseTimestamp(updated)
		tree.Topics[t.ID] = &t
	}
	return rows.Err()
}

func (r *SQLitePlanRepo) loadGoals(ctx context.Context, planID string, tree *curriculum.Tree) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.topic_id, g.title, g.type, g.duration_min, g.position,
			g.review_intervals, g.created_at, g.updated_at
		FROM goals g
		JOIN topics t ON t.id = g.topic_id
		JOIN disciplines d ON d.id = t.discipline_id
		WHERE d.plan_id = ? ORDER BY g.position`, planID)
	if err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g domain.Goal
		var typ, created, updated string
		if err := rows.Scan(&g.ID, &g.TopicID, &g.Title, &typ, &g.DurationMin,
			&g.Position, &g.ReviewIntervals, &created, &updated); err != nil {
			return fmt.Errorf("scanning goal: %w", err)
		}
		g.Type = domain.GoalType(typ)
		g.CreatedAt = parseTimestamp(created)
		g.UpdatedAt = parseTimestamp(updated)
		tree.GoalsByTopic[g.TopicID] = append(tree.GoalsByTopic[g.TopicID], &g)
	}
	return rows.Err()
}

func (r *SQLitePlanRepo) loadCycles(ctx context.Context, planID string, tree *curriculum.Tree) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, name, position, created_at, updated_at
		FROM cycles WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return fmt.Errorf("loading cycles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Cycle
		var created, updated string
		if err := rows.Scan(&c.ID, &c.PlanID, &c.Name, &c.Position, &created, &updated); err != nil {
			return fmt.Errorf("scanning cycle: %w", err)
		}
		c.CreatedAt = parseTimestamp(created)
		c.UpdatedAt = parseTimestamp(updated)
		tree.Cycles = append(tree.Cycles, &c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range tree.Cycles {
		items, err := r.loadCycleItems(ctx, c.ID)
		if err != nil {
			return err
		}
		tree.ItemsByCycle[c.ID] = items
	}
	return nil
}

func (r *SQLitePlanRepo) loadCycleItems(ctx context.Context, cycleID string) ([]*domain.CycleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cycle_id, position, kind, topic_id, simulado_id, created_at, updated_at
		FROM cycle_items WHERE cycle_id = ? ORDER BY position`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("loading cycle items: %w", err)
	}
	defer rows.Close()
	var out []*domain.CycleItem
	for rows.Next() {
		var i domain.CycleItem
		var kind, created, updated string
		if err := rows.Scan(&i.ID, &i.CycleID, &i.Position, &kind,
			&i.TopicID, &i.SimuladoID, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning cycle item: %w", err)
		}
		i.Kind = domain.CycleItemKind(kind)
		i.CreatedAt = parseTimestamp(created)
		i.UpdatedAt = parseTimestamp(updated)
		out = append(out, &i)
	}
	return out, rows.Err()
}

func (r *SQLitePlanRepo) loadSimulados(ctx context.Context, planID string, tree *curriculum.Tree) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, title, duration_min, position, created_at, updated_at
		FROM simulados WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return fmt.Errorf("loading simulados: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.Simulado
		var created, updated string
		if err := rows.Scan(&s.ID, &s.PlanID, &s.Title, &s.DurationMin, &s.Position, &created, &updated); err != nil {
			return fmt.Errorf("scanning simulado: %w", err)
		}
		s.CreatedAt = parseTimestamp(created)
		s.UpdatedAt = parseTimestamp(updated)
		tree.Simulados[s.ID] = &s
	}
	return rows.Err()
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var (
		p           domain.Plan
		status      string
		publishedAt sql.NullString
		created     string
		updated     string
	)
	if err := row.Scan(&p.ID, &p.ShortID, &p.Name, &status, &publishedAt, &created, &updated); err != nil {
		return nil, err
	}
	p.Status = domain.PlanStatus(status)
	p.PublishedAt = parseNullableTime(publishedAt, time.RFC3339)
	p.CreatedAt = parseTimestamp(created)
	p.UpdatedAt = parseTimestamp(updated)
	return &p, nil
}
