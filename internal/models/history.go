package models

import "time"

// ActionType tags a history entry. The constants below are the tags the
// services write; entries added through the API may carry any other tag and
// are stored and returned verbatim.
type ActionType string

const (
	ActionCreate                ActionType = "create"
	ActionUpdate                ActionType = "update"
	ActionStatusChange          ActionType = "status_change"
	ActionEquipmentAdded        ActionType = "equipment_added"
	ActionEquipmentUpdate       ActionType = "equipment_update"
	ActionEquipmentStatusChange ActionType = "equipment_status_change"
	ActionEquipmentDeleted      ActionType = "equipment_deleted"
	ActionEmailSent             ActionType = "email_sent"
)

var ActionTypes = []ActionType{
	ActionCreate,
	ActionUpdate,
	ActionStatusChange,
	ActionEquipmentAdded,
	ActionEquipmentUpdate,
	ActionEquipmentStatusChange,
	ActionEquipmentDeleted,
	ActionEmailSent,
}

// HistoryLog is an immutable timeline entry owned by a project.
type HistoryLog struct {
	ID         int64
	ProjectID  int64
	ActionType ActionType
	Message    string
	CreatedAt  time.Time
}
