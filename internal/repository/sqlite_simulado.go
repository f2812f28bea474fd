package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
)

const attemptColumns = `id, user_id, simulado_id, plan_id, date, status,
	score, submitted_at, created_at, updated_at`

// SQLiteSimuladoRepo implements SimuladoRepo.
type SQLiteSimuladoRepo struct {
	db db.DBTX
}

func NewSQLiteSimuladoRepo(dbtx db.DBTX) *SQLiteSimuladoRepo {
	return &SQLiteSimuladoRepo{db: dbtx}
}

func (r *SQLiteSimuladoRepo) GetByID(ctx context.Context, id string) (*domain.Simulado, error) {
	var s domain.Simulado
	var created, updated string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, plan_id, title, duration_min, position, created_at, updated_at
		FROM simulados WHERE id = ?`, id).Scan(
		&s.ID, &s.PlanID, &s.Title, &s.DurationMin, &s.Position, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting simulado %s: %w", id, err)
	}
	s.CreatedAt = parseTimestamp(created)
	s.UpdatedAt = parseTimestamp(updated)
	return &s, nil
}

func (r *SQLiteSimuladoRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Simulado, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, title, duration_min, position, created_at, updated_at
		FROM simulados WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing simulados: %w", err)
	}
	defer rows.Close()

	var out []*domain.Simulado
	for rows.Next() {
		var s domain.Simulado
		var created, updated string
		if err := rows.Scan(&s.ID, &s.PlanID, &s.Title, &s.DurationMin,
			&s.Position, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning simulado: %w", err)
		}
		s.CreatedAt = parseTimestamp(created)
		s.UpdatedAt = parseTimestamp(updated)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SQLiteSimuladoRepo) CreateAttempt(ctx context.Context, a *domain.UserSimulado) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_simulados (`+attemptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.SimuladoID, a.PlanID, a.Date.Format(dateLayout),
		string(a.Status), nullableFloatToValue(a.Score),
		nullableTimeToString(a.SubmittedAt, time.RFC3339),
		timestamp(a.CreatedAt), timestamp(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("creating simulado attempt: %w", err)
	}
	return nil
}

func (r *SQLiteSimuladoRepo) GetAttempt(ctx context.Context, userID, simuladoID string) (*domain.UserSimulado, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+attemptColumns+` FROM user_simulados
		WHERE user_id = ? AND simulado_id = ?`, userID, simuladoID)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting simulado attempt: %w", err)
	}
	return a, nil
}

func (r *SQLiteSimuladoRepo) ListAttempts(ctx context.Context, userID, planID string) ([]*domain.UserSimulado, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+attemptColumns+` FROM user_simulados
		WHERE user_id = ? AND plan_id = ? ORDER BY date`, userID, planID)
	if err != nil {
		return nil, fmt.Errorf("listing simulado attempts: %w", err)
	}
	defer rows.Close()

	var out []*domain.UserSimulado
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning simulado attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteSimuladoRepo) UpdateAttempt(ctx context.Context, a *domain.UserSimulado) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_simulados SET
			date = ?, status = ?, score = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?`,
		a.Date.Format(dateLayout), string(a.Status),
		nullableFloatToValue(a.Score),
		nullableTimeToString(a.SubmittedAt, time.RFC3339), nowUTC(), a.ID)
	if err != nil {
		return fmt.Errorf("updating simulado attempt %s: %w", a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating simulado attempt %s: %w", a.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAttempt(row rowScanner) (*domain.UserSimulado, error) {
	var (
		a           domain.UserSimulado
		date        string
		status      string
		score       sql.NullFloat64
		submittedAt sql.NullString
		created     string
		updated     string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.SimuladoID, &a.PlanID, &date,
		&status, &score, &submittedAt, &created, &updated)
	if err != nil {
		return nil, err
	}
	a.Date, err = parseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parsing attempt date %q: %w", date, err)
	}
	a.Status = domain.SimuladoStatus(status)
	if score.Valid {
		v := score.Float64
		a.Score = &v
	}
	a.SubmittedAt = parseNullableTime(submittedAt, time.RFC3339)
	a.CreatedAt = parseTimestamp(created)
	a.UpdatedAt = parseTimestamp(updated)
	return &a, nil
}
