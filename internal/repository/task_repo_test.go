package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"pomo/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockTaskRepo(t *testing.T) (*TaskRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewTaskRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func taskRows(id int64, name string, pomodoro int, completed bool, projectID *int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "pomodoro", "pomodoro_completed",
		"completed", "project_id", "user_id", "created_at", "completed_at",
	})
	var pid any
	if projectID != nil {
		pid = *projectID
	}
	rows.AddRow(id, name, "desc", pomodoro, 0, completed, pid, int64(1), time.Now().UTC(), nil)
	return rows
}

func TestTaskRepository_Create(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	pid := int64(3)
	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs("write report", "", 4, 0, false, pid, int64(1), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(11, 1))

	task, err := repo.Create(context.Background(), models.Task{
		Name:      "write report",
		Pomodoro:  4,
		ProjectID: &pid,
		UserID:    1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 11 {
		t.Fatalf("expected id 11, got %d", task.ID)
	}
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	task, err := repo.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil task, got %+v", task)
	}
}

func TestTaskRepository_Update_BuildsPartialSet(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	completed := true
	completedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// only completed + completed_at in the SET clause, in field order
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET completed = ?, completed_at = ? WHERE id = ?`)).
		WithArgs(true, completedAt.Format(timeLayout), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(int64(11)).
		WillReturnRows(taskRows(11, "write report", 4, true, nil))

	task, err := repo.Update(context.Background(), 11, TaskUpdate{
		Completed:   &completed,
		CompletedAt: &completedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task == nil || !task.Completed {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestTaskRepository_UpdateInProject_NoMatch(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	name := "renamed"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET name = ? WHERE id = ? AND project_id = ?`)).
		WithArgs("renamed", int64(11), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	task, err := repo.UpdateInProject(context.Background(), 7, 11, TaskUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil task when pairing does not exist, got %+v", task)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	tests := []struct {
		name       string
		mockExpect func(sqlmock.Sqlmock)
		want       bool
		wantErr    bool
	}{
		{
			name: "deleted",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
					WithArgs(int64(11)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: true,
		},
		{
			name: "no such task",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
					WithArgs(int64(11)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: false,
		},
		{
			name: "exec error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
					WithArgs(int64(11)).
					WillReturnError(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockTaskRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			ok, err := repo.Delete(context.Background(), 11)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Fatalf("deleted: got %v, want %v", ok, tt.want)
			}
		})
	}
}
