package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pomo/internal/apperr"
	"pomo/internal/models"
	"pomo/internal/repository"
)

type TaskService struct {
	tasks    repository.Tasks
	activity Activity
}

func NewTaskService(tasks repository.Tasks, activity Activity) *TaskService {
	return &TaskService{tasks: tasks, activity: activity}
}

var _ Tasks = (*TaskService)(nil)

const msgTaskNotFound = "Task not found"

// Create validates and stores a standalone task for userID.
func (s *TaskService) Create(ctx context.Context, userID int64, in TaskInput) (*models.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Please provide a name for the task")
	}
	if in.Pomodoro < 1 {
		return nil, apperr.Validation("Set at least 1 pomodoro per task")
	}

	task, err := s.tasks.Create(ctx, models.Task{
		Name:        name,
		Description: in.Description,
		Pomodoro:    in.Pomodoro,
		ProjectID:   in.ProjectID,
		UserID:      userID,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.activity.Record(ctx, models.EventTaskCreated, fmt.Sprintf("task %q created", task.Name), map[string]any{"task_id": task.ID, "user_id": userID})
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if task == nil {
		return nil, apperr.NotFound(msgTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

func (s *TaskService) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return tasks, nil
}

// Update applies a partial update. Marking a task completed stamps
// completed_at; unmarking clears nothing (history stays).
func (s *TaskService) Update(ctx context.Context, id int64, upd repository.TaskUpdate) (*models.Task, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.Validation("Task name cannot be empty")
	}
	if upd.Pomodoro != nil && *upd.Pomodoro < 1 {
		return nil, apperr.Validation("Set at least 1 pomodoro per task")
	}
	if upd.Completed != nil && *upd.Completed && upd.CompletedAt == nil {
		now := time.Now().UTC()
		upd.CompletedAt = &now
	}

	task, err := s.tasks.Update(ctx, id, upd)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if task == nil {
		return nil, apperr.NotFound(msgTaskNotFound)
	}

	if upd.Completed != nil && *upd.Completed {
		s.activity.Record(ctx, models.EventTaskCompleted, fmt.Sprintf("task %q completed", task.Name), map[string]any{"task_id": task.ID})
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return apperr.NotFound(msgTaskNotFound)
	}
	s.activity.Record(ctx, models.EventTaskDeleted, fmt.Sprintf("task %d deleted", id), map[string]any{"task_id": id})
	return nil
}
