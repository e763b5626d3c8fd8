package models

import "time"

// Task is a single unit of work, measured in pomodoro sessions.
// ProjectID is nil for standalone tasks.
type Task struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Pomodoro          int        `json:"pomodoro"` // planned sessions, at least 1
	PomodoroCompleted int        `json:"pomodoro_completed"`
	Completed         bool       `json:"completed"`
	ProjectID         *int64     `json:"project_id,omitempty"`
	UserID            int64      `json:"user_id"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
