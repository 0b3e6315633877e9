package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/gearbox/internal/model"
)

// ListMaintenanceRecords returns the service log of one of the user's items,
// newest first.
func ListMaintenanceRecords(ctx context.Context, db *sql.DB, userID, gearItemID string) ([]model.MaintenanceRecord, error) {
	if err := GearItemExists(ctx, db, userID, gearItemID); err != nil {
		return nil, err
	}
	return listMaintenanceRecords(ctx, db, gearItemID)
}

// AddMaintenanceRecord appends a service log entry to one of the user's items.
func AddMaintenanceRecord(ctx context.Context, db *sql.DB, userID, gearItemID string, rec *model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	out := *rec
	out.ID = newID()
	out.GearItemID = gearItemID
	out.Date = rec.Date.UTC()
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := getOwnedGear(ctx, tx, userID, gearItemID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO maintenance_records (id, gear_item_id, maintenance_type, maintenance_date, performed_by,
			     cost, description, next_service_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			out.ID, gearItemID, out.Type, out.Date, nullString(out.PerformedBy), nullFloat(out.Cost),
			nullString(out.Description), nullTime(out.NextServiceDate), out.CreatedAt, out.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating maintenance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDueReminders returns the user's reminders with next_date at or before
// at, soonest first.
func ListDueReminders(ctx context.Context, db *sql.DB, userID string, at time.Time) ([]model.MaintenanceReminder, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.gear_item_id, r.reminder_type, r.frequency, r.frequency_unit, r.last_date,
		        r.next_date, r.notification_sent, r.created_at, r.updated_at, g.name
		 FROM maintenance_reminders r
		 JOIN gear_items g ON g.id = r.gear_item_id
		 WHERE g.user_id = ? AND r.next_date <= ?
		 ORDER BY r.next_date, r.id`,
		userID, at.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing due reminders: %w", err)
	}
	defer rows.Close()

	reminders := []model.MaintenanceReminder{}
	for rows.Next() {
		r, err := scanReminder(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func listMaintenanceRecords(ctx context.Context, q querier, gearItemID string) ([]model.MaintenanceRecord, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, gear_item_id, maintenance_type, maintenance_date, performed_by, cost, description,
		        next_service_date, created_at, updated_at
		 FROM maintenance_records WHERE gear_item_id = ?
		 ORDER BY maintenance_date DESC, created_at DESC`, gearItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance records: %w", err)
	}
	defer rows.Close()

	var records []model.MaintenanceRecord
	for rows.Next() {
		var r model.MaintenanceRecord
		var performedBy, description sql.NullString
		var cost sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.GearItemID, &r.Type, &r.Date, &performedBy, &cost, &description,
			&r.NextServiceDate, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning maintenance record: %w", err)
		}
		r.PerformedBy = performedBy.String
		r.Description = description.String
		r.Cost = floatPtr(cost)
		records = append(records, r)
	}
	return records, rows.Err()
}

func listReminders(ctx context.Context, q querier, gearItemID string) ([]model.MaintenanceReminder, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, gear_item_id, reminder_type, frequency, frequency_unit, last_date, next_date,
		        notification_sent, created_at, updated_at
		 FROM maintenance_reminders WHERE gear_item_id = ?
		 ORDER BY next_date, id`, gearItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.MaintenanceReminder
	for rows.Next() {
		r, err := scanReminder(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func scanReminder(row rowScanner, withItemName bool) (*model.MaintenanceReminder, error) {
	r := &model.MaintenanceReminder{}
	var frequency sql.NullInt64
	var unit sql.NullString
	dest := []any{&r.ID, &r.GearItemID, &r.Type, &frequency, &unit, &r.LastDate,
		&r.NextDate, &r.NotificationSent, &r.CreatedAt, &r.UpdatedAt}
	if withItemName {
		dest = append(dest, &r.GearItemName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.Frequency = intPtr(frequency)
	r.FrequencyUnit = unit.String
	return r, nil
}

func insertReminders(ctx context.Context, tx *sql.Tx, gearItemID string, reminders []model.MaintenanceReminder) error {
	ts := now()
	for _, r := range reminders {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO maintenance_reminders (id, gear_item_id, reminder_type, frequency, frequency_unit,
			     last_date, next_date, notification_sent, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			newID(), gearItemID, r.Type, nullInt(r.Frequency), nullString(r.FrequencyUnit),
			nullTime(r.LastDate), r.NextDate.UTC(), r.NotificationSent, ts, ts,
		)
		if err != nil {
			return fmt.Errorf("creating reminder: %w", err)
		}
	}
	return nil
}
