package models

import (
	"database/sql"
	"time"
)

// ItemStatus is the delivery state of a single equipment record.
type ItemStatus string

const (
	ItemStatusOrdered   ItemStatus = "Ordered"
	ItemStatusInTransit ItemStatus = "InTransit"
	ItemStatusDelivered ItemStatus = "Delivered"
	ItemStatusInstalled ItemStatus = "Installed"
	ItemStatusIssue     ItemStatus = "Issue"
)

var ItemStatuses = []ItemStatus{
	ItemStatusOrdered,
	ItemStatusInTransit,
	ItemStatusDelivered,
	ItemStatusInstalled,
	ItemStatusIssue,
}

func (s ItemStatus) Valid() bool {
	for _, v := range ItemStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseItemStatus accepts a canonical item status or one of its display labels.
func ParseItemStatus(value string) (ItemStatus, bool) {
	for _, v := range ItemStatuses {
		if matchesLabel(string(v), value) {
			return v, true
		}
	}
	return "", false
}

// ExpectedDateLayout is the wire and storage format of Equipment.ExpectedDate.
const ExpectedDateLayout = "2006-01-02"

type Equipment struct {
	ID           int64
	ProjectID    int64
	Model        string
	Quantity     int
	ItemStatus   ItemStatus
	ExpectedDate sql.NullString
	Notes        sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
