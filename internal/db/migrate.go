package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and the
// whole list is re-executed on every startup; ALTER TABLE statements that
// already applied are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id           TEXT PRIMARY KEY,
		short_id     TEXT NOT NULL DEFAULT '',
		name         TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'draft'
		             CHECK(status IN ('draft','published','archived')),
		published_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_plans_short_id ON plans(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS disciplines (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		color      TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_disciplines_plan ON disciplines(plan_id)`,

	`CREATE TABLE IF NOT EXISTS topics (
		id            TEXT PRIMARY KEY,
		discipline_id TEXT NOT NULL REFERENCES disciplines(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		position      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_topics_discipline ON topics(discipline_id)`,

	`CREATE TABLE IF NOT EXISTS goals (
		id               TEXT PRIMARY KEY,
		topic_id         TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		type             TEXT NOT NULL DEFAULT 'lesson'
		                 CHECK(type IN ('lesson','material','questions','law','review','summary','simulado')),
		duration_min     INTEGER NOT NULL DEFAULT 0,
		position         INTEGER NOT NULL DEFAULT 0,
		review_intervals TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_goals_topic ON goals(topic_id)`,

	`CREATE TABLE IF NOT EXISTS cycles (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cycles_plan ON cycles(plan_id)`,

	// topic_id/simulado_id deliberately carry no foreign key: a republished
	// plan may leave dangling references, which the flattener skips.
	`CREATE TABLE IF NOT EXISTS cycle_items (
		id          TEXT PRIMARY KEY,
		cycle_id    TEXT NOT NULL REFERENCES cycles(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL DEFAULT 0,
		kind        TEXT NOT NULL CHECK(kind IN ('topic','simulado')),
		topic_id    TEXT NOT NULL DEFAULT '',
		simulado_id TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cycle_items_cycle ON cycle_items(cycle_id)`,

	`CREATE TABLE IF NOT EXISTS simulados (
		id           TEXT PRIMARY KEY,
		plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		duration_min INTEGER NOT NULL DEFAULT 0,
		position     INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_simulados_plan ON simulados(plan_id)`,

	`CREATE TABLE IF NOT EXISTS user_simulados (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		simulado_id  TEXT NOT NULL,
		plan_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'scheduled'
		             CHECK(status IN ('blocked','released','scheduled','submitted')),
		score        REAL,
		submitted_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_simulados_attempt
		ON user_simulados(user_id, simulado_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_events (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		plan_id           TEXT NOT NULL,
		date              TEXT NOT NULL,
		meta_id           TEXT NOT NULL,
		type              TEXT NOT NULL,
		title             TEXT NOT NULL,
		discipline_name   TEXT NOT NULL DEFAULT '',
		topic_name        TEXT NOT NULL DEFAULT '',
		color             TEXT NOT NULL DEFAULT '',
		duration_min      INTEGER NOT NULL DEFAULT 0,
		ord               INTEGER NOT NULL DEFAULT 0,
		part              INTEGER NOT NULL DEFAULT 0,
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','completed')),
		recorded_min      INTEGER NOT NULL DEFAULT 0,
		completed_at      TEXT,
		original_event_id TEXT NOT NULL DEFAULT '',
		review_label      TEXT NOT NULL DEFAULT '',
		extension_min     INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedule_events_day_ord
		ON schedule_events(user_id, plan_id, date, ord)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_events_day
		ON schedule_events(user_id, plan_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_events_status
		ON schedule_events(user_id, plan_id, status, date)`,

	`CREATE TABLE IF NOT EXISTS study_profiles (
		user_id               TEXT PRIMARY KEY,
		plan_id               TEXT NOT NULL DEFAULT '',
		level                 TEXT NOT NULL DEFAULT '',
		smart_merge_tolerance INTEGER NOT NULL DEFAULT 20,
		routine_0             INTEGER NOT NULL DEFAULT 0,
		routine_1             INTEGER NOT NULL DEFAULT 0,
		routine_2             INTEGER NOT NULL DEFAULT 0,
		routine_3             INTEGER NOT NULL DEFAULT 0,
		routine_4             INTEGER NOT NULL DEFAULT 0,
		routine_5             INTEGER NOT NULL DEFAULT 0,
		routine_6             INTEGER NOT NULL DEFAULT 0
	)`,

	// No foreign key on event_id: a melt/re-cast pass replaces event rows
	// and must not erase recorded study history.
	`CREATE TABLE IF NOT EXISTS study_logs (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		event_id   TEXT NOT NULL,
		started_at TEXT NOT NULL,
		minutes    INTEGER NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_study_logs_event ON study_logs(event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_study_logs_started ON study_logs(started_at)`,
}
