package models

type CreateProjectRequest struct {
	Title string `json:"title" example:"Kitchen Install"`
	// ChatID is the external key of the originating conversation, "{chatId}_{topicId}" for bot-created projects.
	ChatID string  `json:"chatId" example:"1000_55"`
	Status *string `json:"status,omitempty" example:"New"`
}

type UpdateProjectRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status" example:"Installation"`
}

// EquipmentRequest is used for both create and update; omitted fields keep
// their defaults on create and their current values on update.
type EquipmentRequest struct {
	Model        *string `json:"model,omitempty" example:"Router X"`
	Quantity     *int    `json:"quantity,omitempty" example:"2"`
	ItemStatus   *string `json:"itemStatus,omitempty" example:"Ordered"`
	ExpectedDate *string `json:"expectedDate,omitempty" example:"2026-11-01"`
	Notes        *string `json:"notes,omitempty"`
}

type HistoryRequest struct {
	ActionType string `json:"actionType" example:"email_sent"`
	Message    string `json:"message"`
}

type EmailRequest struct {
	To      string `json:"to" example:"client@example.com"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
