package model

import "time"

// MaintenanceRecord is a log entry of service performed on a gear item.
type MaintenanceRecord struct {
	ID              string     `json:"id"`
	GearItemID      string     `json:"gearItemId"`
	Type            string     `json:"maintenanceType"`
	Date            time.Time  `json:"maintenanceDate"`
	PerformedBy     string     `json:"performedBy,omitempty"`
	Cost            *float64   `json:"cost,omitempty"`
	Description     string     `json:"description,omitempty"`
	NextServiceDate *time.Time `json:"nextServiceDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MaintenanceReminder is a recurring service schedule. NextDate alone decides
// whether the reminder is due.
type MaintenanceReminder struct {
	ID               string     `json:"id"`
	GearItemID       string     `json:"gearItemId"`
	Type             string     `json:"reminderType"`
	Frequency        *int       `json:"frequency,omitempty"`
	FrequencyUnit    string     `json:"frequencyUnit,omitempty"`
	LastDate         *time.Time `json:"lastDate,omitempty"`
	NextDate         time.Time  `json:"nextDate"`
	NotificationSent bool       `json:"notificationSent"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// Joined field (not always populated).
	GearItemName string `json:"gearItemName,omitempty"`
}

// Reminder frequency units.
const (
	FrequencyDays   = "days"
	FrequencyWeeks  = "weeks"
	FrequencyMonths = "months"
	FrequencyYears  = "years"
)

// ValidFrequencyUnit reports whether u is a known unit. Empty is allowed.
func ValidFrequencyUnit(u string) bool {
	switch u {
	case "", FrequencyDays, FrequencyWeeks, FrequencyMonths, FrequencyYears:
		return true
	}
	return false
}
