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

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

var _ Projects = (*ProjectRepository)(nil)

const (
	insertProjectSQL = `INSERT INTO projects (name, description, image_cover, due_date, owner_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectProjectByIDSQL    = `SELECT id, name, description, image_cover, due_date, owner_id, created_at FROM projects WHERE id = ?`
	selectAllProjectsSQL    = `SELECT id, name, description, image_cover, due_date, owner_id, created_at FROM projects ORDER BY id ASC`
	selectProjectsByOwner   = `SELECT id, name, description, image_cover, due_date, owner_id, created_at FROM projects WHERE owner_id = ? ORDER BY id ASC`
	selectContributorsSQL   = `SELECT user_id FROM project_contributors WHERE project_id = ? ORDER BY user_id ASC`
	insertContributorSQL    = `INSERT OR IGNORE INTO project_contributors (project_id, user_id) VALUES (?, ?)`
	deleteProjectSQL        = `DELETE FROM projects WHERE id = ?`
	deleteContributorsSQL   = `DELETE FROM project_contributors WHERE project_id = ?`
	detachProjectTasksSQL   = `UPDATE tasks SET project_id = NULL WHERE project_id = ?`
	updateProjectSQLPrefix  = `UPDATE projects SET `
	updateProjectSQLSuffix  = ` WHERE id = ?`
)

// Create inserts a project and its contributor rows.
func (r *ProjectRepository) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	var due any
	if p.DueDate != nil {
		due = p.DueDate.UTC().Format(timeLayout)
	}
	res, err := r.db.ExecContext(ctx, insertProjectSQL,
		p.Name, p.Description, p.ImageCover, due, p.OwnerID, p.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert project %q: %w", p.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id for project %q: %w", p.Name, err)
	}
	p.ID = id
	for _, uid := range p.Contributors {
		if _, err := r.db.ExecContext(ctx, insertContributorSQL, id, uid); err != nil {
			return nil, fmt.Errorf("add contributor %d to project %d: %w", uid, id, err)
		}
	}
	return &p, nil
}

// GetByID fetches a project with its contributors. Returns (nil, nil) if not found.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProjectByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select project %d: %w", id, err)
	}
	contributors, err := r.loadContributors(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Contributors = contributors
	return p, nil
}

// List returns all projects, oldest first (contributors not populated).
func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.list(ctx, selectAllProjectsSQL)
}

// ListByOwner returns the projects owned by a user.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Project, error) {
	return r.list(ctx, selectProjectsByOwner, ownerID)
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]models.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of upd and returns the updated
// project, or (nil, nil) when the project does not exist.
func (r *ProjectRepository) Update(ctx context.Context, id int64, upd ProjectUpdate) (*models.Project, error) {
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
	if upd.ImageCover != nil {
		sets = append(sets, "image_cover = ?")
		args = append(args, *upd.ImageCover)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, upd.DueDate.UTC().Format(timeLayout))
	}
	if len(sets) > 0 {
		args = append(args, id)
		q := updateProjectSQLPrefix + strings.Join(sets, ", ") + updateProjectSQLSuffix
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return nil, fmt.Errorf("update project %d: %w", id, err)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a project, its contributor rows, and detaches its tasks.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := r.db.ExecContext(ctx, detachProjectTasksSQL, id); err != nil {
		return false, fmt.Errorf("detach tasks of project %d: %w", id, err)
	}
	if _, err := r.db.ExecContext(ctx, deleteContributorsSQL, id); err != nil {
		return false, fmt.Errorf("delete contributors of project %d: %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, deleteProjectSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for project %d delete: %w", id, err)
	}
	return n > 0, nil
}

func (r *ProjectRepository) loadContributors(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, selectContributorsSQL, projectID)
	if err != nil {
		return nil, fmt.Errorf("list contributors of project %d: %w", projectID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var uid int64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p           models.Project
		description sql.NullString
		imageCover  sql.NullString
		dueDate     sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &imageCover, &dueDate, &p.OwnerID, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.ImageCover = imageCover.String
	if dueDate.Valid {
		t := dueDate.Time.UTC()
		p.DueDate = &t
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}
