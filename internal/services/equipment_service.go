package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/store"
)

type EquipmentService struct {
	store   *store.Store
	history *HistoryService
	logger  *slog.Logger
}

func NewEquipmentService(st *store.Store, history *HistoryService, logger *slog.Logger) *EquipmentService {
	return &EquipmentService{store: st, history: history, logger: logger}
}

// EquipmentInput carries optional equipment fields. On Add, nil fields take
// their defaults; on Update, nil or blank fields keep the current value.
type EquipmentInput struct {
	Model        *string
	Quantity     *int
	ItemStatus   *string
	ExpectedDate *string
	Notes        *string
}

type EquipmentStatusChange struct {
	Equipment *models.Equipment
	OldStatus models.ItemStatus
	NewStatus models.ItemStatus
}

func (s *EquipmentService) List(ctx context.Context, projectID int64) ([]models.Equipment, error) {
	if err := s.history.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListEquipmentByProject(ctx, projectID)
}

func (s *EquipmentService) Add(ctx context.Context, projectID int64, in EquipmentInput) (*models.Equipment, error) {
	if in.Model == nil || strings.TrimSpace(*in.Model) == "" {
		return nil, invalid("model is required")
	}
	rec := store.NewEquipment{
		ProjectID:  projectID,
		Model:      strings.TrimSpace(*in.Model),
		Quantity:   1,
		ItemStatus: models.ItemStatusOrdered,
		Notes:      nonBlank(in.Notes),
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, invalid("quantity must be positive")
		}
		if *in.Quantity > 0 {
			rec.Quantity = *in.Quantity
		}
	}
	if status := nonBlank(in.ItemStatus); status != nil {
		parsed, ok := models.ParseItemStatus(*status)
		if !ok {
			return nil, invalid("invalid item status %q", *status)
		}
		rec.ItemStatus = parsed
	}
	date, err := parseExpectedDate(in.ExpectedDate)
	if err != nil {
		return nil, err
	}
	rec.ExpectedDate = date

	if err := s.history.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	item, err := s.store.CreateEquipment(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.history.record(ctx, projectID, models.ActionEquipmentAdded,
		fmt.Sprintf("Equipment added: %s, quantity: %d", item.Model, item.Quantity))
	s.logger.Info("equipment added", "project_id", projectID, "equipment_id", item.ID)
	return item, nil
}

// Get returns an equipment item after checking that it belongs to projectID.
func (s *EquipmentService) Get(ctx context.Context, id, projectID int64) (*models.Equipment, error) {
	item, err := s.store.GetEquipment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("equipment not found")
		}
		return nil, err
	}
	if item.ProjectID != projectID {
		return nil, forbidden("equipment does not belong to project %d", projectID)
	}
	return item, nil
}

func (s *EquipmentService) Update(ctx context.Context, id, projectID int64, in EquipmentInput) (*models.Equipment, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, invalid("quantity must be positive")
	}
	var status *models.ItemStatus
	if raw := nonBlank(in.ItemStatus); raw != nil {
		parsed, ok := models.ParseItemStatus(*raw)
		if !ok {
			return nil, invalid("invalid item status %q", *raw)
		}
		status = &parsed
	}
	date, err := parseExpectedDate(in.ExpectedDate)
	if err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id, projectID)
	if err != nil {
		return nil, err
	}

	patch := store.EquipmentPatch{
		Model:        coalesce(nonBlank(in.Model), current.Model),
		Quantity:     coalesce(positive(in.Quantity), current.Quantity),
		ItemStatus:   coalesce(status, current.ItemStatus),
		ExpectedDate: date,
		Notes:        nonBlank(in.Notes),
	}
	if patch.ExpectedDate == nil && current.ExpectedDate.Valid {
		patch.ExpectedDate = &current.ExpectedDate.String
	}
	if patch.Notes == nil && current.Notes.Valid {
		patch.Notes = &current.Notes.String
	}

	updated, err := s.store.UpdateEquipment(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("equipment not found")
		}
		return nil, err
	}

	s.history.record(ctx, projectID, models.ActionEquipmentUpdate,
		fmt.Sprintf("Equipment updated: %s", updated.Model))
	return updated, nil
}

func (s *EquipmentService) UpdateStatus(ctx context.Context, id, projectID int64, status string) (*EquipmentStatusChange, error) {
	if strings.TrimSpace(status) == "" {
		return nil, invalid("status is required")
	}
	next, ok := models.ParseItemStatus(status)
	if !ok {
		return nil, invalid("invalid item status %q", status)
	}
	current, err := s.Get(ctx, id, projectID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateEquipmentStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("equipment not found")
		}
		return nil, err
	}

	s.history.record(ctx, projectID, models.ActionEquipmentStatusChange,
		fmt.Sprintf(`Equipment "%s" status changed from "%s" to "%s"`, current.Model, current.ItemStatus, next))
	return &EquipmentStatusChange{Equipment: updated, OldStatus: current.ItemStatus, NewStatus: next}, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id, projectID int64) error {
	current, err := s.Get(ctx, id, projectID)
	if err != nil {
		return err
	}
	deleted, err := s.store.DeleteEquipment(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("equipment not found")
	}

	s.history.record(ctx, projectID, models.ActionEquipmentDeleted,
		fmt.Sprintf("Equipment deleted: %s", current.Model))
	s.logger.Info("equipment deleted", "project_id", projectID, "equipment_id", id)
	return nil
}

func parseExpectedDate(raw *string) (*string, error) {
	value := nonBlank(raw)
	if value == nil {
		return nil, nil
	}
	if _, err := time.Parse(models.ExpectedDateLayout, *value); err != nil {
		return nil, invalid("expectedDate must be formatted as YYYY-MM-DD")
	}
	return value, nil
}

func nonBlank(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positive(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func coalesce[T any](v *T, fallback T) *T {
	if v != nil {
		return v
	}
	return &fallback
}
