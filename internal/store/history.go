package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"telegram-crm-backend/internal/models"
)

const historyColumns = `id, project_id, action_type, message, created_at`

// History rows are append-only: there is no update statement for them.

func scanHistory(row rowScanner) (*models.HistoryLog, error) {
	var h models.HistoryLog
	if err := row.Scan(&h.ID, &h.ProjectID, &h.ActionType, &h.Message, timestamp{&h.CreatedAt}); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) CreateHistory(ctx context.Context, projectID int64, actionType models.ActionType, message string) (*models.HistoryLog, error) {
	h, err := scanHistory(s.db.QueryRowContext(ctx, `
		INSERT INTO history_logs (project_id, action_type, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+historyColumns,
		projectID, actionType, message, s.now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create history log: %w", err)
	}
	return h, nil
}

func (s *Store) GetHistory(ctx context.Context, id int64) (*models.HistoryLog, error) {
	h, err := scanHistory(s.db.QueryRowContext(ctx, `
		SELECT `+historyColumns+`
		FROM history_logs
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get history log: %w", err)
	}
	return h, nil
}

func (s *Store) ListHistoryByProject(ctx context.Context, projectID int64) ([]models.HistoryLog, error) {
	return s.queryHistory(ctx, `
		SELECT `+historyColumns+`
		FROM history_logs
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`, projectID)
}

func (s *Store) ListHistoryByProjectAndType(ctx context.Context, projectID int64, actionType models.ActionType) ([]models.HistoryLog, error) {
	return s.queryHistory(ctx, `
		SELECT `+historyColumns+`
		FROM history_logs
		WHERE project_id = $1 AND action_type = $2
		ORDER BY created_at DESC, id DESC
	`, projectID, actionType)
}

func (s *Store) queryHistory(ctx context.Context, query string, args ...any) ([]models.HistoryLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryLog, 0, 16)
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history log: %w", err)
		}
		entries = append(entries, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

func (s *Store) DeleteHistory(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM history_logs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete history log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete history log: %w", err)
	}
	return n > 0, nil
}

// DeleteHistoryForProject purges every entry of a project and reports how
// many rows were removed.
func (s *Store) DeleteHistoryForProject(ctx context.Context, projectID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM history_logs WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project history: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete project history: %w", err)
	}
	return n, nil
}
