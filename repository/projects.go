package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csy100/touch-api/data"
	"github.com/lib/pq"
)

type projects interface {
	ProjectExists(projectID string) (bool, error)
	GetProject(projectID string) (*data.Project, error)
	GetAllProjects(filters data.Filters) ([]*data.Project, data.Metadata, error)
	SearchProjects(patterns []string, filters data.Filters) ([]*data.Project, data.Metadata, error)
}

// ProjectExists reports whether a project record exists.
func (r *repository) ProjectExists(projectID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`
	var exists bool
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetProject retrieves a project record by its ID.
func (r *repository) GetProject(projectID string) (*data.Project, error) {
	query := `
		SELECT id, name, status, description, detailed_description, tracks, booth, created_at, updated_at
		FROM projects
		WHERE id = $1`
	var project data.Project
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&project.ID,
		&project.Name,
		&project.Status,
		&project.Description,
		&project.DetailedDescription,
		pq.Array(&project.Tracks),
		&project.Booth,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &project, nil
}

// GetAllProjects retrieves a paginated list of all project records,
// id-descending. The detailed description is omitted from list rows.
func (r *repository) GetAllProjects(filters data.Filters) ([]*data.Project, data.Metadata, error) {
	query := `
		SELECT count(*) OVER(), id, name, status, description, tracks, booth, created_at, updated_at
		FROM projects
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	projects := []*data.Project{}
	for rows.Next() {
		var project data.Project
		err := rows.Scan(
			&totalRecords,
			&project.ID,
			&project.Name,
			&project.Status,
			&project.Description,
			pq.Array(&project.Tracks),
			&project.Booth,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		projects = append(projects, &project)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return projects, metadata, nil
}

// SearchProjects retrieves a paginated list of project records matching any
// of the given ILIKE patterns against the text fields, tracks, or booth,
// most recently updated first. Pattern expansion (case variants, booth
// number forms) is the caller's concern.
func (r *repository) SearchProjects(patterns []string, filters data.Filters) ([]*data.Project, data.Metadata, error) {
	query := `
		SELECT count(*) OVER(), id, name, status, description, detailed_description, tracks, booth, created_at, updated_at
		FROM projects
		WHERE name ILIKE ANY($1)
			OR description ILIKE ANY($1)
			OR detailed_description ILIKE ANY($1)
			OR booth ILIKE ANY($1)
			OR EXISTS (SELECT 1 FROM unnest(tracks) AS track WHERE track ILIKE ANY($1))
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	args := []interface{}{pq.Array(patterns), filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	projects := []*data.Project{}
	for rows.Next() {
		var project data.Project
		err := rows.Scan(
			&totalRecords,
			&project.ID,
			&project.Name,
			&project.Status,
			&project.Description,
			&project.DetailedDescription,
			pq.Array(&project.Tracks),
			&project.Booth,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		projects = append(projects, &project)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return projects, metadata, nil
}
