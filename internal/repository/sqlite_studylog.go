package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/domain"
)

// SQLiteStudyLogRepo implements StudyLogRepo. Logs are append-only; they
// survive event rows being replaced by a re-cast pass.
type SQLiteStudyLogRepo struct {
	db db.DBTX
}

func NewSQLiteStudyLogRepo(dbtx db.DBTX) *SQLiteStudyLogRepo {
	return &SQLiteStudyLogRepo{db: dbtx}
}

func (r *SQLiteStudyLogRepo) Create(ctx context.Context, l *domain.StudyLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO study_logs (id, user_id, event_id, started_at, minutes, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.EventID, l.StartedAt.UTC().Format(time.RFC3339),
		l.Minutes, l.Note, timestamp(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("creating study log: %w", err)
	}
	return nil
}

func (r *SQLiteStudyLogRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.StudyLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, started_at, minutes, note, created_at
		FROM study_logs WHERE event_id = ? ORDER BY started_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing study logs for event: %w", err)
	}
	return scanStudyLogs(rows)
}

func (r *SQLiteStudyLogRepo) ListRecent(ctx context.Context, userID string, days int) ([]*domain.StudyLog, error) {
	since := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, started_at, minutes, note, created_at
		FROM study_logs WHERE user_id = ? AND started_at >= ?
		ORDER BY started_at DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("listing recent study logs: %w", err)
	}
	return scanStudyLogs(rows)
}

func scanStudyLogs(rows *sql.Rows) ([]*domain.StudyLog, error) {
	defer rows.Close()
	var out []*domain.StudyLog
	for rows.Next() {
		var l domain.StudyLog
		var started, created string
		if err := rows.Scan(&l.ID, &l.UserID, &l.EventID, &started,
			&l.Minutes, &l.Note, &created); err != nil {
			return nil, fmt.Errorf("scanning study log: %w", err)
		}
		l.StartedAt = parseTimestamp(started)
		l.CreatedAt = parseTimestamp(created)
		out = append(out, &l)
	}
	return out, rows.Err()
}
