package models

import "strings"

// DefaultLocale is used when a caller asks for labels in an unknown locale.
const DefaultLocale = "en"

var labels = map[string]map[string]string{
	"en": {
		string(ProjectStatusNew):              "New",
		string(ProjectStatusEquipmentOrdered): "Equipment ordered",
		string(ProjectStatusDelivered):        "Delivered",
		string(ProjectStatusInstallation):     "Installation",
		string(ProjectStatusClosed):           "Closed",

		string(ItemStatusOrdered):   "Ordered",
		string(ItemStatusInTransit): "In transit",
		string(ItemStatusInstalled): "Installed",
		string(ItemStatusIssue):     "Issue",

		string(ActionCreate):                "Project created",
		string(ActionUpdate):                "Project updated",
		string(ActionStatusChange):          "Status changed",
		string(ActionEquipmentAdded):        "Equipment added",
		string(ActionEquipmentUpdate):       "Equipment updated",
		string(ActionEquipmentStatusChange): "Equipment status changed",
		string(ActionEquipmentDeleted):      "Equipment deleted",
		string(ActionEmailSent):             "Email sent",
	},
	"ru": {
		string(ProjectStatusNew):              "Новый",
		string(ProjectStatusEquipmentOrdered): "Заказано оборудование",
		string(ProjectStatusDelivered):        "Доставлено",
		string(ProjectStatusInstallation):     "Монтаж",
		string(ProjectStatusClosed):           "Закрыто",

		string(ItemStatusOrdered):   "Заказано",
		string(ItemStatusInTransit): "В пути",
		string(ItemStatusInstalled): "Установлено",
		string(ItemStatusIssue):     "Проблема",

		string(ActionCreate):                "Создание проекта",
		string(ActionUpdate):                "Обновление проекта",
		string(ActionStatusChange):          "Смена статуса",
		string(ActionEquipmentAdded):        "Добавлено оборудование",
		string(ActionEquipmentUpdate):       "Обновлено оборудование",
		string(ActionEquipmentStatusChange): "Смена статуса оборудования",
		string(ActionEquipmentDeleted):      "Удалено оборудование",
		string(ActionEmailSent):             "Отправлено письмо",
	},
}

// Label returns the display text of a status or action tag. Unknown values
// come back unchanged.
func Label(locale, value string) string {
	table, ok := labels[locale]
	if !ok {
		table = labels[DefaultLocale]
	}
	if l, ok := table[value]; ok {
		return l
	}
	return value
}

// Locales returns the supported label locales.
func Locales() []string {
	return []string{"en", "ru"}
}

func matchesLabel(canonical, input string) bool {
	input = strings.TrimSpace(input)
	if strings.EqualFold(canonical, input) {
		return true
	}
	for _, table := range labels {
		if l, ok := table[canonical]; ok && strings.EqualFold(l, input) {
			return true
		}
	}
	return false
}
