package service

import (
	"context"
	"testing"
	"time"

	"pomo/internal/apperr"
	"pomo/internal/models"
	"pomo/internal/repository"
)

// fakeProjectsRepo is an in-memory repository.Projects for service tests.
type fakeProjectsRepo struct {
	seq  int64
	byID map[int64]*models.Project
}

func newFakeProjectsRepo() *fakeProjectsRepo {
	return &fakeProjectsRepo{byID: map[int64]*models.Project{}}
}

func (f *fakeProjectsRepo) Create(_ context.Context, p models.Project) (*models.Project, error) {
	f.seq++
	p.ID = f.seq
	p.CreatedAt = time.Now().UTC()
	f.byID[p.ID] = &p
	return &p, nil
}

func (f *fakeProjectsRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectsRepo) List(_ context.Context) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectsRepo) ListByOwner(_ context.Context, ownerID int64) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectsRepo) Update(_ context.Context, id int64, upd repository.ProjectUpdate) (*models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.ImageCover != nil {
		p.ImageCover = *upd.ImageCover
	}
	if upd.DueDate != nil {
		p.DueDate = upd.DueDate
	}
	return p, nil
}

func (f *fakeProjectsRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func newTestProjects() (*ProjectService, *fakeProjectsRepo, *fakeTasksRepo) {
	projects := newFakeProjectsRepo()
	tasks := newFakeTasksRepo()
	return NewProjectService(projects, tasks, fakeActivity{}), projects, tasks
}

func TestProjectService_Create(t *testing.T) {
	svc, _, _ := newTestProjects()

	_, err := svc.Create(context.Background(), 1, ProjectInput{Name: "  "})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	project, err := svc.Create(context.Background(), 1, ProjectInput{Name: " thesis ", Contributors: []int64{2, 3}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if project.Name != "thesis" || project.OwnerID != 1 || project.ID == 0 {
		t.Fatalf("unexpected project: %+v", project)
	}
}

func TestProjectService_Get_PopulatesTasks(t *testing.T) {
	svc, _, tasks := newTestProjects()
	project, err := svc.Create(context.Background(), 1, ProjectInput{Name: "thesis"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := tasks.Create(context.Background(), models.Task{Name: "outline", Pomodoro: 2, ProjectID: &project.ID, UserID: 1}); err != nil {
		t.Fatalf("seed task failed: %v", err)
	}

	got, err := svc.Get(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Name != "outline" {
		t.Fatalf("tasks not populated: %+v", got.Tasks)
	}

	if _, err := svc.Get(context.Background(), 999); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestProjectService_AddTask(t *testing.T) {
	svc, _, _ := newTestProjects()
	project, err := svc.Create(context.Background(), 1, ProjectInput{Name: "thesis"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.AddTask(context.Background(), 999, 1, ProjectTaskInput{Name: "x", Pomodoro: 1})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for absent project, got %v", err)
	}

	_, err = svc.AddTask(context.Background(), project.ID, 1, ProjectTaskInput{Name: "draft intro", Pomodoro: 0})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := svc.AddTask(context.Background(), project.ID, 1, ProjectTaskInput{Name: "draft intro", Pomodoro: 2})
	if err != nil {
		t.Fatalf("add task failed: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ProjectID == nil || *got.Tasks[0].ProjectID != project.ID {
		t.Fatalf("task not attached to project: %+v", got.Tasks)
	}
}

func TestProjectService_UpdateTask_OutsideProject(t *testing.T) {
	svc, _, tasks := newTestProjects()
	project, err := svc.Create(context.Background(), 1, ProjectInput{Name: "thesis"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// task belongs to no project
	stray, err := tasks.Create(context.Background(), models.Task{Name: "stray", Pomodoro: 1, UserID: 1})
	if err != nil {
		t.Fatalf("seed task failed: %v", err)
	}

	done := true
	_, err = svc.UpdateTask(context.Background(), project.ID, stray.ID, repository.TaskUpdate{Completed: &done})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for task outside project, got %v", err)
	}
}

func TestProjectService_RemoveTask(t *testing.T) {
	svc, _, _ := newTestProjects()
	project, err := svc.Create(context.Background(), 1, ProjectInput{Name: "thesis"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	withTask, err := svc.AddTask(context.Background(), project.ID, 1, ProjectTaskInput{Name: "draft intro", Pomodoro: 2})
	if err != nil {
		t.Fatalf("add task failed: %v", err)
	}

	got, err := svc.RemoveTask(context.Background(), project.ID, withTask.Tasks[0].ID)
	if err != nil {
		t.Fatalf("remove task failed: %v", err)
	}
	if len(got.Tasks) != 0 {
		t.Fatalf("task still attached: %+v", got.Tasks)
	}

	_, err = svc.RemoveTask(context.Background(), project.ID, withTask.Tasks[0].ID)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found on second removal, got %v", err)
	}
}

func TestProjectService_Delete(t *testing.T) {
	svc, _, _ := newTestProjects()
	project, err := svc.Create(context.Background(), 1, ProjectInput{Name: "thesis"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), project.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), project.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}
