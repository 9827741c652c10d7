package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"telegram-crm-backend/internal/metrics"
	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/store"
)

// HistoryService is the project timeline. Entries are appended and read,
// never changed.
type HistoryService struct {
	store   *store.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHistoryService(st *store.Store, m *metrics.Metrics, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: st, metrics: m, logger: logger}
}

// Append writes an entry without checking that the project exists; callers
// have already resolved it.
func (s *HistoryService) Append(ctx context.Context, projectID int64, actionType models.ActionType, message string) (*models.HistoryLog, error) {
	entry, err := s.store.CreateHistory(ctx, projectID, actionType, message)
	if err != nil {
		return nil, err
	}
	s.metrics.HistoryAppended(string(actionType))
	return entry, nil
}

// record appends an entry that follows a primary write. The primary write is
// never undone, so a failure here is only logged.
func (s *HistoryService) record(ctx context.Context, projectID int64, actionType models.ActionType, message string) {
	if _, err := s.Append(ctx, projectID, actionType, message); err != nil {
		s.logger.Error("history append failed after primary write",
			"project_id", projectID,
			"action_type", actionType,
			"history_message", message,
			"error", err,
		)
	}
}

// List returns the project's entries newest first.
func (s *HistoryService) List(ctx context.Context, projectID int64) ([]models.HistoryLog, error) {
	return s.store.ListHistoryByProject(ctx, projectID)
}

// ListByType returns entries whose tag matches actionType exactly.
func (s *HistoryService) ListByType(ctx context.Context, projectID int64, actionType models.ActionType) ([]models.HistoryLog, error) {
	return s.store.ListHistoryByProjectAndType(ctx, projectID, actionType)
}

// Add appends a caller-supplied entry to an existing project. Any non-empty
// tag is accepted.
func (s *HistoryService) Add(ctx context.Context, projectID int64, actionType, message string) (*models.HistoryLog, error) {
	actionType = strings.TrimSpace(actionType)
	if actionType == "" || strings.TrimSpace(message) == "" {
		return nil, invalid("actionType and message are required")
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.Append(ctx, projectID, models.ActionType(actionType), message)
}

func (s *HistoryService) ListForProject(ctx context.Context, projectID int64) ([]models.HistoryLog, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.List(ctx, projectID)
}

func (s *HistoryService) ListForProjectByType(ctx context.Context, projectID int64, actionType string) ([]models.HistoryLog, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.ListByType(ctx, projectID, models.ActionType(actionType))
}

// Get returns one entry, checking that it belongs to projectID.
func (s *HistoryService) Get(ctx context.Context, id, projectID int64) (*models.HistoryLog, error) {
	entry, err := s.store.GetHistory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("history entry not found")
		}
		return nil, err
	}
	if entry.ProjectID != projectID {
		return nil, forbidden("history entry does not belong to project %d", projectID)
	}
	return entry, nil
}

// Delete removes a single entry. It exists for administrative cleanup only.
func (s *HistoryService) Delete(ctx context.Context, id, projectID int64) error {
	if _, err := s.Get(ctx, id, projectID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteHistory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("history entry not found")
	}
	s.logger.Info("history entry deleted", "history_id", id, "project_id", projectID)
	return nil
}

// DeleteAll purges the project's timeline. The project row is not required
// to exist, so entries orphaned by a project delete can be cleaned up too.
func (s *HistoryService) DeleteAll(ctx context.Context, projectID int64) (int64, error) {
	n, err := s.store.DeleteHistoryForProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("project history purged", "project_id", projectID, "deleted", n)
	return n, nil
}

func (s *HistoryService) requireProject(ctx context.Context, projectID int64) error {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("project not found")
		}
		return err
	}
	return nil
}
