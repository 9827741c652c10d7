package models

import "time"

type ProjectResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ChatID    string    `json:"chat_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewProjectResponse(p *Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Title:     p.Title,
		ChatID:    p.ExternalKey,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewProjectListResponse(projects []Project) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = NewProjectResponse(&projects[i])
	}
	return out
}

type EquipmentResponse struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	Model        string    `json:"model"`
	Quantity     int       `json:"quantity"`
	ItemStatus   string    `json:"item_status"`
	ExpectedDate *string   `json:"expected_date"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewEquipmentResponse(e *Equipment) EquipmentResponse {
	resp := EquipmentResponse{
		ID:         e.ID,
		ProjectID:  e.ProjectID,
		Model:      e.Model,
		Quantity:   e.Quantity,
		ItemStatus: string(e.ItemStatus),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.ExpectedDate.Valid {
		resp.ExpectedDate = &e.ExpectedDate.String
	}
	if e.Notes.Valid {
		resp.Notes = &e.Notes.String
	}
	return resp
}

func NewEquipmentListResponse(items []Equipment) []EquipmentResponse {
	out := make([]EquipmentResponse, len(items))
	for i := range items {
		out[i] = NewEquipmentResponse(&items[i])
	}
	return out
}

type HistoryResponse struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	ActionType string    `json:"action_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewHistoryResponse(h *HistoryLog) HistoryResponse {
	return HistoryResponse{
		ID:         h.ID,
		ProjectID:  h.ProjectID,
		ActionType: string(h.ActionType),
		Message:    h.Message,
		CreatedAt:  h.CreatedAt,
	}
}

func NewHistoryListResponse(entries []HistoryLog) []HistoryResponse {
	out := make([]HistoryResponse, len(entries))
	for i := range entries {
		out[i] = NewHistoryResponse(&entries[i])
	}
	return out
}

type ProjectDetailResponse struct {
	Project       ProjectResponse     `json:"project"`
	EquipmentList []EquipmentResponse `json:"equipmentList"`
	History       []HistoryResponse   `json:"history"`
}

// ConflictResponse is returned with 409 when a project already exists for a chat id.
type ConflictResponse struct {
	Error   string          `json:"error"`
	Project ProjectResponse `json:"project"`
}

type ProjectStatusResponse struct {
	Success       bool            `json:"success"`
	OldStatus     string          `json:"oldStatus"`
	UpdatedStatus string          `json:"updatedStatus"`
	Project       ProjectResponse `json:"project"`
}

type EquipmentStatusResponse struct {
	Success       bool              `json:"success"`
	OldStatus     string            `json:"oldStatus"`
	UpdatedStatus string            `json:"updatedStatus"`
	Equipment     EquipmentResponse `json:"equipment"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HistoryPurgeResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type EmailResponse struct {
	Success bool   `json:"success"`
	Info    string `json:"info,omitempty"`
	Message string `json:"message"`
}

type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type StatusesResponse struct {
	Locale      string         `json:"locale"`
	Project     []StatusOption `json:"project"`
	Equipment   []StatusOption `json:"equipment"`
	ActionTypes []StatusOption `json:"actionTypes"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
	DB        string    `json:"db"`
}
