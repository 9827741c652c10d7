package models_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"telegram-crm-backend/internal/models"
)

func TestParseProjectStatus(t *testing.T) {
	cases := map[string]models.ProjectStatus{
		"New":                   models.ProjectStatusNew,
		"new":                   models.ProjectStatusNew,
		" Installation ":        models.ProjectStatusInstallation,
		"Equipment ordered":     models.ProjectStatusEquipmentOrdered,
		"Заказано оборудование": models.ProjectStatusEquipmentOrdered,
		"Закрыто":               models.ProjectStatusClosed,
	}
	for in, want := range cases {
		got, ok := models.ParseProjectStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "Shipped", "Ordered"} {
		_, ok := models.ParseProjectStatus(in)
		assert.False(t, ok, in)
	}
}

func TestParseItemStatus(t *testing.T) {
	cases := map[string]models.ItemStatus{
		"Ordered":    models.ItemStatusOrdered,
		"In transit": models.ItemStatusInTransit,
		"В пути":     models.ItemStatusInTransit,
		"Delivered":  models.ItemStatusDelivered,
		"Доставлено": models.ItemStatusDelivered,
		"Проблема":   models.ItemStatusIssue,
	}
	for in, want := range cases {
		got, ok := models.ParseItemStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := models.ParseItemStatus("Closed")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, models.ProjectStatusClosed.Valid())
	assert.False(t, models.ProjectStatus("Новый").Valid())
	assert.True(t, models.ItemStatusIssue.Valid())
	assert.False(t, models.ItemStatus("").Valid())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Новый", models.Label("ru", "New"))
	assert.Equal(t, "Equipment ordered", models.Label("en", "EquipmentOrdered"))
	assert.Equal(t, "In transit", models.Label("fr", "InTransit"))
	assert.Equal(t, "custom_tag", models.Label("en", "custom_tag"))
}

func TestNewEquipmentResponse(t *testing.T) {
	now := time.Now().UTC()
	resp := models.NewEquipmentResponse(&models.Equipment{
		ID:           1,
		ProjectID:    2,
		Model:        "Router",
		Quantity:     1,
		ItemStatus:   models.ItemStatusOrdered,
		ExpectedDate: sql.NullString{String: "2026-11-01", Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if assert.NotNil(t, resp.ExpectedDate) {
		assert.Equal(t, "2026-11-01", *resp.ExpectedDate)
	}
	assert.Nil(t, resp.Notes)
	assert.Equal(t, "Ordered", resp.ItemStatus)
}

func TestListResponsesAreNeverNil(t *testing.T) {
	assert.NotNil(t, models.NewProjectListResponse(nil))
	assert.NotNil(t, models.NewEquipmentListResponse(nil))
	assert.NotNil(t, models.NewHistoryListResponse(nil))
}
