package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/gearbox/internal/model"
)

// date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// ptr returns the time, or nil for an absent date.
func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// gearRequest is the body of gear create and update. Absent fields leave the
// stored value unchanged on update.
type gearRequest struct {
	CategoryID      *string  `json:"categoryId"`
	Name            *string  `json:"name"`
	Brand           *string  `json:"brand"`
	Model           *string  `json:"model"`
	SerialNumber    *string  `json:"serialNumber"`
	Description     *string  `json:"description"`
	PurchaseDate    *date    `json:"purchaseDate"`
	PurchasePrice   *float64 `json:"purchasePrice"`
	CurrentValue    *float64 `json:"currentValue"`
	ConditionRating *int     `json:"conditionRating"`
	Status          *string  `json:"status"`
	Location        *string  `json:"location"`
	Notes           *string  `json:"notes"`

	// A present list, even an empty one, replaces the stored set.
	Specifications       *[]specRequest     `json:"specifications"`
	MaintenanceReminders *[]reminderRequest `json:"maintenanceReminders"`
}

type specRequest struct {
	Name  string `json:"specName"`
	Value string `json:"specValue"`
	Unit  string `json:"specUnit"`
}

type reminderRequest struct {
	Type          string `json:"reminderType"`
	Frequency     *int   `json:"frequency"`
	FrequencyUnit string `json:"frequencyUnit"`
	LastDate      *date  `json:"lastDate"`
	NextDate      *date  `json:"nextDate"`
}

// apply merges the supplied fields into item.
func (req *gearRequest) apply(item *model.GearItem) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&item.CategoryID, req.CategoryID)
	setString(&item.Name, req.Name)
	setString(&item.Brand, req.Brand)
	setString(&item.Model, req.Model)
	setString(&item.SerialNumber, req.SerialNumber)
	setString(&item.Description, req.Description)
	setString(&item.Status, req.Status)
	setString(&item.Location, req.Location)
	setString(&item.Notes, req.Notes)

	if req.PurchaseDate != nil {
		item.PurchaseDate = req.PurchaseDate.ptr()
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = req.PurchasePrice
	}
	if req.CurrentValue != nil {
		item.CurrentValue = req.CurrentValue
	}
	if req.ConditionRating != nil {
		item.ConditionRating = req.ConditionRating
	}
}

// specifications converts and validates the supplied set. It returns nil when
// the field was absent.
func (req *gearRequest) specifications() ([]model.Specification, error) {
	if req.Specifications == nil {
		return nil, nil
	}
	specs := make([]model.Specification, 0, len(*req.Specifications))
	for i, s := range *req.Specifications {
		name, value := strings.TrimSpace(s.Name), strings.TrimSpace(s.Value)
		if name == "" || value == "" {
			return nil, fmt.Errorf("specification %d: specName and specValue are required", i+1)
		}
		specs = append(specs, model.Specification{Name: name, Value: value, Unit: strings.TrimSpace(s.Unit)})
	}
	return specs, nil
}

// reminders converts and validates the supplied set. It returns nil when the
// field was absent.
func (req *gearRequest) reminders() ([]model.MaintenanceReminder, error) {
	if req.MaintenanceReminders == nil {
		return nil, nil
	}
	reminders := make([]model.MaintenanceReminder, 0, len(*req.MaintenanceReminders))
	for i, r := range *req.MaintenanceReminders {
		if strings.TrimSpace(r.Type) == "" {
			return nil, fmt.Errorf("reminder %d: reminderType is required", i+1)
		}
		if r.NextDate == nil {
			return nil, fmt.Errorf("reminder %d: nextDate is required", i+1)
		}
		if !model.ValidFrequencyUnit(r.FrequencyUnit) {
			return nil, fmt.Errorf("reminder %d: invalid frequencyUnit %q", i+1, r.FrequencyUnit)
		}
		if r.Frequency != nil && *r.Frequency < 1 {
			return nil, fmt.Errorf("reminder %d: frequency must be positive", i+1)
		}
		reminders = append(reminders, model.MaintenanceReminder{
			Type:          strings.TrimSpace(r.Type),
			Frequency:     r.Frequency,
			FrequencyUnit: r.FrequencyUnit,
			LastDate:      r.LastDate.ptr(),
			NextDate:      r.NextDate.Time,
		})
	}
	return reminders, nil
}
