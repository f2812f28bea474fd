package domain

import "time"

// StudyLog is one recorded stretch of study time against an event.
type StudyLog struct {
	ID        string
	UserID    string
	EventID   string
	StartedAt time.Time
	Minutes   int
	Note      string
	CreatedAt time.Time
}
