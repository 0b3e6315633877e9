package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/gearbox/internal/model"
)

// GetGearStats summarizes the user's collection. Reminders count as due when
// their next_date is at or before at.
func GetGearStats(ctx context.Context, db *sql.DB, userID string, at time.Time) (*model.GearStats, error) {
	stats := &model.GearStats{
		ByCategory: []model.CategoryCount{},
		ByStatus:   []model.StatusCount{},
	}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(current_value), 0) FROM gear_items WHERE user_id = ?`, userID,
	).Scan(&stats.TotalItems, &stats.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("counting gear items: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM maintenance_reminders r
		 JOIN gear_items g ON g.id = r.gear_item_id
		 WHERE g.user_id = ? AND r.next_date <= ?`,
		userID, at.UTC(),
	).Scan(&stats.MaintenanceDue)
	if err != nil {
		return nil, fmt.Errorf("counting due reminders: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.name, COUNT(g.id) FROM gear_items g
		 JOIN gear_categories c ON c.id = g.category_id
		 WHERE g.user_id = ?
		 GROUP BY c.id, c.name ORDER BY c.name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting by category: %w", err)
	}
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, cc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting by category: %w", err)
	}

	rows, err = db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM gear_items WHERE user_id = ? GROUP BY status ORDER BY status`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus = append(stats.ByStatus, sc)
	}
	return stats, rows.Err()
}
