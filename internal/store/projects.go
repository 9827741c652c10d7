package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"telegram-crm-backend/internal/models"
)

const projectColumns = `id, title, chat_id, status, created_at, updated_at`

// ProjectPatch lists the project fields to change; nil fields keep their
// stored value.
type ProjectPatch struct {
	Title  *string
	Status *models.ProjectStatus
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.Title, &p.ExternalKey, &p.Status, timestamp{&p.CreatedAt}, timestamp{&p.UpdatedAt}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, title, externalKey string, status models.ProjectStatus) (*models.Project, error) {
	now := s.now()
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, chat_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		title, externalKey, status, now, now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (s *Store) GetProjectByExternalKey(ctx context.Context, externalKey string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE chat_id = $1
	`, externalKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project by chat id: %w", err)
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectStatus sets only the status and updated_at columns.
func (s *Store) UpdateProjectStatus(ctx context.Context, id int64, status models.ProjectStatus) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+projectColumns,
		id, status, s.now(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int64, patch ProjectPatch) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects
		SET title = COALESCE($2, title),
		    status = COALESCE($3, status),
		    updated_at = $4
		WHERE id = $1
		RETURNING `+projectColumns,
		id, patch.Title, patch.Status, s.now(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// DeleteProject removes the project row only. Equipment and history rows
// that reference it are left untouched.
func (s *Store) DeleteProject(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return n > 0, nil
}
