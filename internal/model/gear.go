package model

import (
	"errors"
	"strings"
	"time"
)

// GearItem is a single piece of equipment tracked by a user.
type GearItem struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	CategoryID      string     `json:"categoryId"`
	Name            string     `json:"name"`
	Brand           string     `json:"brand,omitempty"`
	Model           string     `json:"model,omitempty"`
	SerialNumber    string     `json:"serialNumber,omitempty"`
	Description     string     `json:"description,omitempty"`
	PurchaseDate    *time.Time `json:"purchaseDate,omitempty"`
	PurchasePrice   *float64   `json:"purchasePrice,omitempty"`
	CurrentValue    *float64   `json:"currentValue,omitempty"`
	ConditionRating *int       `json:"conditionRating,omitempty"`
	Status          string     `json:"status"`
	Location        string     `json:"location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Associations (not always populated).
	Category             *Category             `json:"category,omitempty"`
	Images               []Image               `json:"images,omitempty"`
	Specifications       []Specification       `json:"specifications,omitempty"`
	MaintenanceRecords   []MaintenanceRecord   `json:"maintenanceRecords,omitempty"`
	MaintenanceReminders []MaintenanceReminder `json:"maintenanceReminders,omitempty"`
	SharedBy             *SharedBy             `json:"sharedBy,omitempty"`
}

// Gear statuses.
const (
	GearStatusActive   = "Active"
	GearStatusInactive = "Inactive"
	GearStatusInRepair = "In Repair"
	GearStatusBorrowed = "Borrowed"
	GearStatusLentOut  = "Lent Out"
)

// Condition rating bounds.
const (
	MinConditionRating = 1
	MaxConditionRating = 10
)

// ValidGearStatus reports whether s is a known gear status.
func ValidGearStatus(s string) bool {
	switch s {
	case GearStatusActive, GearStatusInactive, GearStatusInRepair, GearStatusBorrowed, GearStatusLentOut:
		return true
	}
	return false
}

// Validate checks the item's own fields. Category existence is checked by the
// store.
func (g *GearItem) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("name is required")
	}
	if g.CategoryID == "" {
		return errors.New("categoryId is required")
	}
	if !ValidGearStatus(g.Status) {
		return errors.New("invalid status")
	}
	if g.ConditionRating != nil && (*g.ConditionRating < MinConditionRating || *g.ConditionRating > MaxConditionRating) {
		return errors.New("conditionRating must be between 1 and 10")
	}
	if g.PurchasePrice != nil && *g.PurchasePrice < 0 {
		return errors.New("purchasePrice must not be negative")
	}
	if g.CurrentValue != nil && *g.CurrentValue < 0 {
		return errors.New("currentValue must not be negative")
	}
	return nil
}

// Specification is a free-form name/value/unit attribute of a gear item.
type Specification struct {
	ID         string    `json:"id"`
	GearItemID string    `json:"gearItemId"`
	Name       string    `json:"specName"`
	Value      string    `json:"specValue"`
	Unit       string    `json:"specUnit,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Category groups gear items. A category without a user is system-provided.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	UserID      *string   `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
