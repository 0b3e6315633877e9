package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/gearbox/internal/db"
	"github.com/erazemk/gearbox/internal/model"
)

func TestMaintenanceRecords(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, database, "alice@example.com")
	item := createTestGear(t, database, user.ID, "Strat", nil)

	older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, rec := range []model.MaintenanceRecord{
		{Type: "Setup", Date: older, PerformedBy: "Shop"},
		{Type: "Fret level", Date: newer, Cost: floatp(150)},
	} {
		if _, err := AddMaintenanceRecord(ctx, database, user.ID, item.ID, &rec); err != nil {
			t.Fatalf("AddMaintenanceRecord: %v", err)
		}
	}

	records, err := ListMaintenanceRecords(ctx, database, user.ID, item.ID)
	if err != nil {
		t.Fatalf("ListMaintenanceRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Type != "Fret level" {
		t.Errorf("expected newest record first, got %q", records[0].Type)
	}
	if records[0].Cost == nil || *records[0].Cost != 150 {
		t.Errorf("expected cost 150, got %v", records[0].Cost)
	}
	if !records[1].Date.Equal(older) {
		t.Errorf("expected date %v, got %v", older, records[1].Date)
	}
}

func TestMaintenanceRecordsScopedToOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, database, "alice@example.com")
	mallory := createTestUser(t, database, "mallory@example.com")
	item := createTestGear(t, database, alice.ID, "Strat", nil)

	_, err := AddMaintenanceRecord(ctx, database, mallory.ID, item.ID, &model.MaintenanceRecord{Type: "Setup", Date: time.Now()})
	if !errors.Is(err, ErrGearNotFound) {
		t.Errorf("expected ErrGearNotFound, got %v", err)
	}

	_, err = ListMaintenanceRecords(ctx, database, mallory.ID, item.ID)
	if !errors.Is(err, ErrGearNotFound) {
		t.Errorf("expected ErrGearNotFound, got %v", err)
	}
}

func TestListDueReminders(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, database, "alice@example.com")
	bob := createTestUser(t, database, "bob@example.com")
	now := time.Now().UTC()

	_, err := CreateGearItem(ctx, database, alice.ID, &model.GearItem{
		Name: "Strat", CategoryID: electricGuitarCategory, Status: model.GearStatusActive,
	}, nil, []model.MaintenanceReminder{
		reminderAt(now.Add(-48 * time.Hour)),
		reminderAt(now.Add(-time.Hour)),
		reminderAt(now.Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("CreateGearItem: %v", err)
	}
	_, err = CreateGearItem(ctx, database, bob.ID, &model.GearItem{
		Name: "Jazz Bass", CategoryID: electricGuitarCategory, Status: model.GearStatusActive,
	}, nil, []model.MaintenanceReminder{reminderAt(now.Add(-time.Hour))})
	if err != nil {
		t.Fatalf("CreateGearItem: %v", err)
	}

	due, err := ListDueReminders(ctx, database, alice.ID, now)
	if err != nil {
		t.Fatalf("ListDueReminders: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due reminders, got %d", len(due))
	}
	if !due[0].NextDate.Before(due[1].NextDate) {
		t.Error("expected soonest reminder first")
	}
	if due[0].GearItemName != "Strat" {
		t.Errorf("expected item name Strat, got %q", due[0].GearItemName)
	}
}
