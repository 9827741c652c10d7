package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"telegram-crm-backend/internal/models"
)

const equipmentColumns = `id, project_id, model, quantity, item_status, expected_date, notes, created_at, updated_at`

// NewEquipment carries the fields of an equipment row to insert.
type NewEquipment struct {
	ProjectID    int64
	Model        string
	Quantity     int
	ItemStatus   models.ItemStatus
	ExpectedDate *string
	Notes        *string
}

// EquipmentPatch lists the equipment fields to change; nil fields keep
// their stored value.
type EquipmentPatch struct {
	Model        *string
	Quantity     *int
	ItemStatus   *models.ItemStatus
	ExpectedDate *string
	Notes        *string
}

func scanEquipment(row rowScanner) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(
		&e.ID, &e.ProjectID, &e.Model, &e.Quantity, &e.ItemStatus,
		&e.ExpectedDate, &e.Notes, timestamp{&e.CreatedAt}, timestamp{&e.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CreateEquipment(ctx context.Context, in NewEquipment) (*models.Equipment, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if in.ItemStatus == "" {
		in.ItemStatus = models.ItemStatusOrdered
	}
	now := s.now()
	e, err := scanEquipment(s.db.QueryRowContext(ctx, `
		INSERT INTO equipment (project_id, model, quantity, item_status, expected_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+equipmentColumns,
		in.ProjectID, in.Model, in.Quantity, in.ItemStatus, in.ExpectedDate, in.Notes, now, now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return e, nil
}

func (s *Store) GetEquipment(ctx context.Context, id int64) (*models.Equipment, error) {
	e, err := scanEquipment(s.db.QueryRowContext(ctx, `
		SELECT `+equipmentColumns+`
		FROM equipment
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return e, nil
}

// ListEquipmentByProject returns the project's equipment, newest first. It
// does not check that the project itself still exists.
func (s *Store) ListEquipmentByProject(ctx context.Context, projectID int64) ([]models.Equipment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+equipmentColumns+`
		FROM equipment
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	items := make([]models.Equipment, 0, 8)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return items, nil
}

// UpdateEquipmentStatus sets only item_status and updated_at.
func (s *Store) UpdateEquipmentStatus(ctx context.Context, id int64, status models.ItemStatus) (*models.Equipment, error) {
	e, err := scanEquipment(s.db.QueryRowContext(ctx, `
		UPDATE equipment
		SET item_status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+equipmentColumns,
		id, status, s.now(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update equipment status: %w", err)
	}
	return e, nil
}

func (s *Store) UpdateEquipment(ctx context.Context, id int64, patch EquipmentPatch) (*models.Equipment, error) {
	e, err := scanEquipment(s.db.QueryRowContext(ctx, `
		UPDATE equipment
		SET model = COALESCE($2, model),
		    quantity = COALESCE($3, quantity),
		    item_status = COALESCE($4, item_status),
		    expected_date = COALESCE($5, expected_date),
		    notes = COALESCE($6, notes),
		    updated_at = $7
		WHERE id = $1
		RETURNING `+equipmentColumns,
		id, patch.Model, patch.Quantity, patch.ItemStatus, patch.ExpectedDate, patch.Notes, s.now(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	return e, nil
}

func (s *Store) DeleteEquipment(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete equipment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete equipment: %w", err)
	}
	return n > 0, nil
}
