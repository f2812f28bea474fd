package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
)

// SQLiteProfileRepo implements ProfileRepo. Get never fails on a missing
// row: a user without a stored profile gets the defaults, so every
// scheduling path can assume a profile exists.
type SQLiteProfileRepo struct {
	db db.DBTX
}

func NewSQLiteProfileRepo(dbtx db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: dbtx}
}

func (r *SQLiteProfileRepo) Get(ctx context.Context, userID string) (*domain.StudyProfile, error) {
	var p domain.StudyProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, plan_id, level, smart_merge_tolerance,
			routine_0, routine_1, routine_2, routine_3, routine_4, routine_5, routine_6
		FROM study_profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.PlanID, &p.Level, &p.SmartMergeTolerance,
		&p.Routine[0], &p.Routine[1], &p.Routine[2], &p.Routine[3],
		&p.Routine[4], &p.Routine[5], &p.Routine[6])
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.StudyProfile{
			UserID:              userID,
			SmartMergeTolerance: domain.DefaultMergeToleranceMin,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile for %s: %w", userID, err)
	}
	return &p, nil
}

func (r *SQLiteProfileRepo) Upsert(ctx context.Context, p *domain.StudyProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO study_profiles (user_id, plan_id, level, smart_merge_tolerance,
			routine_0, routine_1, routine_2, routine_3, routine_4, routine_5, routine_6)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			plan_id = excluded.plan_id,
			level = excluded.level,
			smart_merge_tolerance = excluded.smart_merge_tolerance,
			routine_0 = excluded.routine_0,
			routine_1 = excluded.routine_1,
			routine_2 = excluded.routine_2,
			routine_3 = excluded.routine_3,
			routine_4 = excluded.routine_4,
			routine_5 = excluded.routine_5,
			routine_6 = excluded.routine_6`,
		p.UserID, p.PlanID, p.Level, p.SmartMergeTolerance,
		p.Routine[0], p.Routine[1], p.Routine[2], p.Routine[3],
		p.Routine[4], p.Routine[5], p.Routine[6])
	if err != nil {
		return fmt.Errorf("upserting profile for %s: %w", p.UserID, err)
	}
	return nil
}
