package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pomo/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ Tasks = (*TaskRepository)(nil)

const (
	insertTaskSQL = `INSERT INTO tasks (name, description, pomodoro, pomodoro_completed, completed, project_id, user_id, created_at, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectTaskByIDSQL     = `SELECT id, name, description, pomodoro, pomodoro_completed, completed, project_id, user_id, created_at, completed_at FROM tasks WHERE id = ?`
	selectTasksByProject  = `SELECT id, name, description, pomodoro, pomodoro_completed, completed, project_id, user_id, created_at, completed_at FROM tasks WHERE project_id = ? ORDER BY id ASC`
	selectTasksByUserSQL  = `SELECT id, name, description, pomodoro, pomodoro_completed, completed, project_id, user_id, created_at, completed_at FROM tasks WHERE user_id = ? ORDER BY id ASC`
	deleteTaskSQL         = `DELETE FROM tasks WHERE id = ?`
	deleteTaskInProject   = `DELETE FROM tasks WHERE id = ? AND project_id = ?`
	updateTaskSQLPrefix   = `UPDATE tasks SET `
	updateTaskSQLSuffix   = ` WHERE id = ?`
	updateInProjectSuffix = ` WHERE id = ? AND project_id = ?`
)

// Create inserts a task and returns the stored record.
func (r *TaskRepository) Create(ctx context.Context, t models.Task) (*models.Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	var projectID any
	if t.ProjectID != nil {
		projectID = *t.ProjectID
	}
	var completedAt any
	if t.CompletedAt != nil {
		completedAt = t.CompletedAt.UTC().Format(timeLayout)
	}
	res, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.Name, t.Description, t.Pomodoro, t.PomodoroCompleted, t.Completed,
		projectID, t.UserID, t.CreatedAt.Format(timeLayout), completedAt)
	if err != nil {
		return nil, fmt.Errorf("insert task %q: %w", t.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id for task %q: %w", t.Name, err)
	}
	t.ID = id
	return &t, nil
}

// GetByID fetches a task by id. Returns (nil, nil) if not found.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTaskByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	return t, nil
}

// ListByProject returns all tasks attached to a project.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return r.list(ctx, selectTasksByProject, projectID)
}

// ListByUser returns all tasks owned by a user.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	return r.list(ctx, selectTasksByUserSQL, userID)
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of upd and returns the updated task,
// or (nil, nil) when the task does not exist.
func (r *TaskRepository) Update(ctx context.Context, id int64, upd TaskUpdate) (*models.Task, error) {
	sets, args := buildTaskSets(upd)
	if len(sets) > 0 {
		args = append(args, id)
		q := updateTaskSQLPrefix + strings.Join(sets, ", ") + updateTaskSQLSuffix
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, fmt.Errorf("update task %d: %w", id, err)
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateInProject applies upd only when the task belongs to the given
// project; (nil, nil) when no such pairing exists.
func (r *TaskRepository) UpdateInProject(ctx context.Context, projectID, taskID int64, upd TaskUpdate) (*models.Task, error) {
	sets, args := buildTaskSets(upd)
	if len(sets) == 0 {
		return r.getInProject(ctx, projectID, taskID)
	}
	args = append(args, taskID, projectID)
	q := updateTaskSQLPrefix + strings.Join(sets, ", ") + updateInProjectSuffix
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update task %d in project %d: %w", taskID, projectID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected for task %d update: %w", taskID, err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, taskID)
}

// Delete removes a task, reporting whether a row was removed.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTaskSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for task %d delete: %w", id, err)
	}
	return n > 0, nil
}

// DeleteInProject removes a task only when it belongs to the project.
func (r *TaskRepository) DeleteInProject(ctx context.Context, projectID, taskID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTaskInProject, taskID, projectID)
	if err != nil {
		return false, fmt.Errorf("delete task %d in project %d: %w", taskID, projectID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for task %d delete: %w", taskID, err)
	}
	return n > 0, nil
}

func (r *TaskRepository) getInProject(ctx context.Context, projectID, taskID int64) (*models.Task, error) {
	t, err := r.GetByID(ctx, taskID)
	if err != nil || t == nil {
		return t, err
	}
	if t.ProjectID == nil || *t.ProjectID != projectID {
		return nil, nil
	}
	return t, nil
}

func buildTaskSets(upd TaskUpdate) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Pomodoro != nil {
		sets = append(sets, "pomodoro = ?")
		args = append(args, *upd.Pomodoro)
	}
	if upd.PomodoroCompleted != nil {
		sets = append(sets, "pomodoro_completed = ?")
		args = append(args, *upd.PomodoroCompleted)
	}
	if upd.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *upd.Completed)
	}
	if upd.CompletedAt != nil {
		sets = append(sets, "completed_at = ?")
		args = append(args, upd.CompletedAt.UTC().Format(timeLayout))
	}
	return sets, args
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		projectID   sql.NullInt64
		completedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Name, &description, &t.Pomodoro, &t.PomodoroCompleted,
		&t.Completed, &projectID, &t.UserID, &t.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	t.Description = description.String
	if projectID.Valid {
		v := projectID.Int64
		t.ProjectID = &v
	}
	if completedAt.Valid {
		v := completedAt.Time.UTC()
		t.CompletedAt = &v
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}
