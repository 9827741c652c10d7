package models

import "time"

// ProjectStatus is the lifecycle stage of a project. The set is closed and
// ordered; any stage may follow any other.
type ProjectStatus string

const (
	ProjectStatusNew              ProjectStatus = "New"
	ProjectStatusEquipmentOrdered ProjectStatus = "EquipmentOrdered"
	ProjectStatusDelivered        ProjectStatus = "Delivered"
	ProjectStatusInstallation     ProjectStatus = "Installation"
	ProjectStatusClosed           ProjectStatus = "Closed"
)

// ProjectStatuses lists every project status in workflow order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusNew,
	ProjectStatusEquipmentOrdered,
	ProjectStatusDelivered,
	ProjectStatusInstallation,
	ProjectStatusClosed,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseProjectStatus accepts a canonical status name or any of its display
// labels and returns the canonical value.
func ParseProjectStatus(value string) (ProjectStatus, bool) {
	for _, v := range ProjectStatuses {
		if matchesLabel(string(v), value) {
			return v, true
		}
	}
	return "", false
}

type Project struct {
	ID          int64
	Title       string
	ExternalKey string
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
