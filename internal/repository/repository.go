package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pomo/internal/models"
)

// ErrDuplicate is returned when a unique constraint (username, email)
// rejects a write.
var ErrDuplicate = errors.New("duplicate value")

// Users is the account store consumed by the auth service.
// Lookup methods return (nil, nil) when no row matches.
type Users interface {
	Create(ctx context.Context, username, email, passwordHash string, role models.Role) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByResetToken matches a pending, unexpired reset token hash.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) (*models.User, error)
	// UpdatePassword stores a new hash, stamps password_changed_at and
	// clears any pending reset token in the same write.
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id int64, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

// ProjectUpdate carries the fields of a partial project update; nil
// fields are left untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
	ImageCover  *string
	DueDate     *time.Time
}

type Projects interface {
	Create(ctx context.Context, p models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Project, error)
	Update(ctx context.Context, id int64, upd ProjectUpdate) (*models.Project, error)
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// TaskUpdate carries the fields of a partial task update; nil fields
// are left untouched.
type TaskUpdate struct {
	Name              *string
	Description       *string
	Pomodoro          *int
	PomodoroCompleted *int
	Completed         *bool
	CompletedAt       *time.Time
}

type Tasks interface {
	Create(ctx context.Context, t models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)
	Update(ctx context.Context, id int64, upd TaskUpdate) (*models.Task, error)
	// UpdateInProject applies upd only when the task belongs to the project.
	UpdateInProject(ctx context.Context, projectID, taskID int64, upd TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteInProject(ctx context.Context, projectID, taskID int64) (bool, error)
}

type Activity interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Users    Users
	Projects Projects
	Tasks    Tasks
	Activity Activity
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
		Activity: NewActivitySQLite(db),
	}
}
