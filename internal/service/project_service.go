package service

import (
	"context"
	"fmt"
	"strings"

	"pomo/internal/apperr"
	"pomo/internal/models"
	"pomo/internal/repository"
)

type ProjectService struct {
	projects repository.Projects
	tasks    repository.Tasks
	activity Activity
}

func NewProjectService(projects repository.Projects, tasks repository.Tasks, activity Activity) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, activity: activity}
}

var _ Projects = (*ProjectService)(nil)

const msgProjectNotFound = "Project not found"

// Create validates and stores a new project owned by ownerID.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, in ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Please provide a name for the project")
	}

	project, err := s.projects.Create(ctx, models.Project{
		Name:         name,
		Description:  in.Description,
		ImageCover:   in.ImageCover,
		DueDate:      in.DueDate,
		OwnerID:      ownerID,
		Contributors: in.Contributors,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.activity.Record(ctx, models.EventProjectCreated, fmt.Sprintf("project %q created", project.Name), map[string]any{"project_id": project.ID, "owner_id": ownerID})
	return project, nil
}

// Get returns a project with its tasks populated.
func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	return s.getWithTasks(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return projects, nil
}

func (s *ProjectService) ListByOwner(ctx context.Context, ownerID int64) ([]models.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return projects, nil
}

// Update applies a partial update; absent project is a 404.
func (s *ProjectService) Update(ctx context.Context, id int64, upd repository.ProjectUpdate) (*models.Project, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.Validation("Project name cannot be empty")
	}
	project, err := s.projects.Update(ctx, id, upd)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if project == nil {
		return nil, apperr.NotFound(msgProjectNotFound)
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return apperr.NotFound(msgProjectNotFound)
	}
	s.activity.Record(ctx, models.EventProjectDeleted, fmt.Sprintf("project %d deleted", id), map[string]any{"project_id": id})
	return nil
}

// AddTask creates a task inside the project and returns the refreshed
// project, tasks included.
func (s *ProjectService) AddTask(ctx context.Context, projectID, userID int64, in ProjectTaskInput) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if project == nil {
		return nil, apperr.NotFound(msgProjectNotFound)
	}

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
		ProjectID:   &projectID,
		UserID:      userID,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.activity.Record(ctx, models.EventTaskCreated, fmt.Sprintf("task %q added to project %d", task.Name, projectID), map[string]any{"task_id": task.ID, "project_id": projectID})
	return s.getWithTasks(ctx, projectID)
}

// UpdateTask updates a task belonging to the project; a missing project
// or a task outside it is a 404.
func (s *ProjectService) UpdateTask(ctx context.Context, projectID, taskID int64, upd repository.TaskUpdate) (*models.Project, error) {
	task, err := s.tasks.UpdateInProject(ctx, projectID, taskID, upd)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if task == nil {
		return nil, apperr.NotFound("Project or Task not found")
	}
	return s.getWithTasks(ctx, projectID)
}

// RemoveTask deletes a task from the project and returns the refreshed project.
func (s *ProjectService) RemoveTask(ctx context.Context, projectID, taskID int64) (*models.Project, error) {
	removed, err := s.tasks.DeleteInProject(ctx, projectID, taskID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !removed {
		return nil, apperr.NotFound("Project or Task not found")
	}
	s.activity.Record(ctx, models.EventTaskDeleted, fmt.Sprintf("task %d removed from project %d", taskID, projectID), map[string]any{"task_id": taskID, "project_id": projectID})
	return s.getWithTasks(ctx, projectID)
}

func (s *ProjectService) getWithTasks(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if project == nil {
		return nil, apperr.NotFound(msgProjectNotFound)
	}
	tasks, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	project.Tasks = tasks
	return project, nil
}
