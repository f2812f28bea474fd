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

const eventColumns = `id, user_id, plan_id, date, meta_id, type, title,
	discipline_name, topic_name, color, duration_min, ord, part, status,
	recorded_min, completed_at, original_event_id, review_label,
	extension_min, created_at, updated_at`

// SQLiteScheduleRepo implements ScheduleRepo over SQLite. It accepts a
// db.DBTX so the same implementation serves both direct access and
// tx-scoped instances created inside a unit of work.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRepo(dbtx db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: dbtx}
}

func (r *SQLiteScheduleRepo) Insert(ctx context.Context, events []domain.ScheduledEvent) error {
	for i := range events {
		e := &events[i]
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO schedule_events (`+eventColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.UserID, e.PlanID, e.Date.Format(dateLayout), e.MetaID,
			string(e.Type), e.Title, e.DisciplineName, e.TopicName, e.Color,
			e.DurationMin, e.Order, e.Part, string(e.Status),
			e.RecordedMin, nullableTimeToString(e.CompletedAt, time.RFC3339),
			e.OriginalEventID, e.ReviewLabel, e.ExtensionMin,
			timestamp(e.CreatedAt), timestamp(e.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting event %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *SQLiteScheduleRepo) Update(ctx context.Context, e *domain.ScheduledEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedule_events SET
			date = ?, meta_id = ?, type = ?, title = ?, discipline_name = ?,
			topic_name = ?, color = ?, duration_min = ?, ord = ?, part = ?,
			status = ?, recorded_min = ?, completed_at = ?,
			original_event_id = ?, review_label = ?, extension_min = ?,
			updated_at = ?
		WHERE id = ?`,
		e.Date.Format(dateLayout), e.MetaID, string(e.Type), e.Title,
		e.DisciplineName, e.TopicName, e.Color, e.DurationMin, e.Order,
		e.Part, string(e.Status), e.RecordedMin,
		nullableTimeToString(e.CompletedAt, time.RFC3339),
		e.OriginalEventID, e.ReviewLabel, e.ExtensionMin, nowUTC(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event %s: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating event %s: %w", e.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*domain.ScheduledEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+` FROM schedule_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteScheduleRepo) GetRange(ctx context.Context, userID, planID string, from, to time.Time) ([]*domain.ScheduledEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND date >= ? AND date <= ?
		ORDER BY date, ord`,
		userID, planID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing events in range: %w", err)
	}
	return scanEvents(rows)
}

func (r *SQLiteScheduleRepo) GetDay(ctx context.Context, userID, planID string, date time.Time) ([]*domain.ScheduledEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND date = ?
		ORDER BY ord`,
		userID, planID, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing events for day: %w", err)
	}
	return scanEvents(rows)
}

func (r *SQLiteScheduleRepo) ListPendingBefore(ctx context.Context, userID, planID string, cutoff time.Time, inclusive bool) ([]*domain.ScheduledEvent, error) {
	op := "<"
	if inclusive {
		op = "<="
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND status = 'pending' AND date `+op+` ?
		ORDER BY date, ord`,
		userID, planID, cutoff.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing pending events before cutoff: %w", err)
	}
	return scanEvents(rows)
}

func (r *SQLiteScheduleRepo) ListPendingFrom(ctx context.Context, userID, planID string, from time.Time) ([]*domain.ScheduledEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND status = 'pending' AND date >= ?
		ORDER BY date, ord`,
		userID, planID, from.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing pending events from date: %w", err)
	}
	return scanEvents(rows)
}

func (r *SQLiteScheduleRepo) DeleteAllPending(ctx context.Context, userID, planID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND status = 'pending'`,
		userID, planID)
	if err != nil {
		return fmt.Errorf("deleting pending events: %w", err)
	}
	return nil
}

// MaxEventDate returns the latest date carrying any event, or nil when
// the schedule is empty.
func (r *SQLiteScheduleRepo) MaxEventDate(ctx context.Context, userID, planID string) (*time.Time, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(date) FROM schedule_events
		WHERE user_id = ? AND plan_id = ?`,
		userID, planID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("finding max event date: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	d, err := parseDate(raw.String)
	if err != nil {
		return nil, fmt.Errorf("parsing max event date: %w", err)
	}
	return &d, nil
}

// NextOrder returns the first free intra-day order slot for a date.
func (r *SQLiteScheduleRepo) NextOrder(ctx context.Context, userID, planID string, date time.Time) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(ord) FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND date = ?`,
		userID, planID, date.Format(dateLayout)).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("finding next order: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// CompletedMetaIDs returns the set of meta ids whose study work is fully
// done, used to filter regenerated schedules. A split unit counts only
// when every fragment is completed; reviews never count toward their
// source goal.
func (r *SQLiteScheduleRepo) CompletedMetaIDs(ctx context.Context, userID, planID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT meta_id FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND review_label = ''
		GROUP BY meta_id
		HAVING SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) > 0
		AND SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) = 0`,
		userID, planID)
	if err != nil {
		return nil, fmt.Errorf("listing completed meta ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning meta id: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// SumRecordedOn returns the total recorded minutes across a day's events.
func (r *SQLiteScheduleRepo) SumRecordedOn(ctx context.Context, userID, planID string, date time.Time) (int, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(recorded_min) FROM schedule_events
		WHERE user_id = ? AND plan_id = ? AND date = ?`,
		userID, planID, date.Format(dateLayout)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing recorded minutes: %w", err)
	}
	return int(total.Int64), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.ScheduledEvent, error) {
	var (
		e           domain.ScheduledEvent
		date        string
		typ, status string
		completedAt sql.NullString
		created     string
		updated     string
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.PlanID, &date, &e.MetaID, &typ, &e.Title,
		&e.DisciplineName, &e.TopicName, &e.Color, &e.DurationMin,
		&e.Order, &e.Part, &status, &e.RecordedMin, &completedAt,
		&e.OriginalEventID, &e.ReviewLabel, &e.ExtensionMin,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}
	e.Date, err = parseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parsing event date %q: %w", date, err)
	}
	e.Type = domain.GoalType(typ)
	e.Status = domain.EventStatus(status)
	e.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	e.CreatedAt = parseTimestamp(created)
	e.UpdatedAt = parseTimestamp(updated)
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]*domain.ScheduledEvent, error) {
	defer rows.Close()
	var out []*domain.ScheduledEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
