package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/store"
)

type ProjectService struct {
	store   *store.Store
	history *HistoryService
	logger  *slog.Logger
}

func NewProjectService(st *store.Store, history *HistoryService, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: st, history: history, logger: logger}
}

type CreateProjectInput struct {
	Title       string
	ExternalKey string
	// Status defaults to New when nil or blank.
	Status *string
}

type UpdateProjectInput struct {
	Title  *string
	Status *string
}

// ProjectDetail is a project with its equipment and timeline.
type ProjectDetail struct {
	Project   *models.Project
	Equipment []models.Equipment
	History   []models.HistoryLog
}

type ProjectStatusChange struct {
	Project   *models.Project
	OldStatus models.ProjectStatus
	NewStatus models.ProjectStatus
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

// Create inserts a project for a new external key. When the key is already
// taken, the existing project is returned together with an error matching
// ErrConflict.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	key := strings.TrimSpace(in.ExternalKey)
	if title == "" || key == "" {
		return nil, invalid("title and chatId are required")
	}
	status := models.ProjectStatusNew
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		parsed, ok := models.ParseProjectStatus(*in.Status)
		if !ok {
			return nil, invalid("invalid project status %q", *in.Status)
		}
		status = parsed
	}

	existing, err := s.store.GetProjectByExternalKey(ctx, key)
	switch {
	case err == nil:
		return existing, conflict("project already exists for chat %s", key)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	project, err := s.store.CreateProject(ctx, title, key, status)
	if err != nil {
		if !errors.Is(err, store.ErrDuplicateKey) {
			return nil, err
		}
		// Lost the insert race; hand back the row that won.
		winner, getErr := s.store.GetProjectByExternalKey(ctx, key)
		if getErr != nil {
			return nil, fmt.Errorf("failed to read back project for chat %s: %w", key, getErr)
		}
		return winner, conflict("project already exists for chat %s", key)
	}

	s.history.record(ctx, project.ID, models.ActionCreate, fmt.Sprintf(`Project "%s" created`, project.Title))
	s.logger.Info("project created", "project_id", project.ID, "chat_id", project.ExternalKey)
	return project, nil
}

// GetOrCreate returns the project for externalKey, creating it with title when
// none exists. created reports which of the two happened.
func (s *ProjectService) GetOrCreate(ctx context.Context, title, externalKey string) (*models.Project, bool, error) {
	project, err := s.Create(ctx, CreateProjectInput{Title: title, ExternalKey: externalKey})
	if err != nil {
		if errors.Is(err, ErrConflict) && project != nil {
			return project, false, nil
		}
		return nil, false, err
	}
	return project, true, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("project not found")
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) GetByExternalKey(ctx context.Context, externalKey string) (*models.Project, error) {
	project, err := s.store.GetProjectByExternalKey(ctx, externalKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("project not found")
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Detail(ctx context.Context, id int64) (*ProjectDetail, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	equipment, err := s.store.ListEquipmentByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.history.List(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: project, Equipment: equipment, History: history}, nil
}

// UpdateStatus moves a project to any status in the set, including the one
// it already has.
func (s *ProjectService) UpdateStatus(ctx context.Context, id int64, status string) (*ProjectStatusChange, error) {
	if strings.TrimSpace(status) == "" {
		return nil, invalid("status is required")
	}
	next, ok := models.ParseProjectStatus(status)
	if !ok {
		return nil, invalid("invalid project status %q", status)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProjectStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("project not found")
		}
		return nil, err
	}

	s.history.record(ctx, id, models.ActionStatusChange,
		fmt.Sprintf(`Project status changed from "%s" to "%s"`, current.Status, next))
	s.logger.Info("project status changed", "project_id", id, "from", current.Status, "to", next)
	return &ProjectStatusChange{Project: updated, OldStatus: current.Status, NewStatus: next}, nil
}

func (s *ProjectService) Update(ctx context.Context, id int64, in UpdateProjectInput) (*models.Project, error) {
	var patch store.ProjectPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, invalid("title must not be empty")
		}
		patch.Title = &title
	}
	if in.Status != nil {
		parsed, ok := models.ParseProjectStatus(*in.Status)
		if !ok {
			return nil, invalid("invalid project status %q", *in.Status)
		}
		patch.Status = &parsed
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProject(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("project not found")
		}
		return nil, err
	}

	s.history.record(ctx, id, models.ActionUpdate, fmt.Sprintf(`Project updated: "%s"`, updated.Title))
	return updated, nil
}

// Delete removes the project row only. Equipment and history rows that
// reference it are left in place.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("project not found")
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}
