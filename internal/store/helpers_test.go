package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/gearbox/internal/model"
)

// Seeded system category IDs.
const (
	electricGuitarCategory = "6a0f2c1e-0b1d-4a51-9a43-0c7e1f3b0001"
	amplifierCategory      = "6a0f2c1e-0b1d-4a51-9a43-0c7e1f3b0004"
)

func createTestUser(t *testing.T, database *sql.DB, email string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, email, "hash", "Test", "User")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func floatp(f float64) *float64 { return &f }

func createTestGear(t *testing.T, database *sql.DB, userID, name string, value *float64) *model.GearItem {
	t.Helper()
	item, err := CreateGearItem(context.Background(), database, userID, &model.GearItem{
		Name:         name,
		CategoryID:   electricGuitarCategory,
		Status:       model.GearStatusActive,
		CurrentValue: value,
	}, nil, nil)
	if err != nil {
		t.Fatalf("CreateGearItem(%s): %v", name, err)
	}
	return item
}

func countRows(t *testing.T, database *sql.DB, table, gearItemID string) int {
	t.Helper()
	var n int
	err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE gear_item_id = ?`, gearItemID).Scan(&n)
	if err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func reminderAt(next time.Time) model.MaintenanceReminder {
	return model.MaintenanceReminder{Type: "Restring", NextDate: next}
}
