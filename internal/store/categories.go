package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/gearbox/internal/model"
)

// ListCategories returns the system categories plus those the user created.
func ListCategories(ctx context.Context, db *sql.DB, userID string) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, icon, user_id, created_at, updated_at
		 FROM gear_categories WHERE user_id IS NULL OR user_id = ?
		 ORDER BY name, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description, icon, owner sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &icon, &owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		c.Icon = icon.String
		c.UserID = stringPtr(owner)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory creates a category owned by the user.
func CreateCategory(ctx context.Context, db *sql.DB, userID, name, description, icon string) (*model.Category, error) {
	c := &model.Category{
		ID:          newID(),
		Name:        name,
		Description: description,
		Icon:        icon,
		UserID:      &userID,
		CreatedAt:   now(),
	}
	c.UpdatedAt = c.CreatedAt

	_, err := db.ExecContext(ctx,
		`INSERT INTO gear_categories (id, name, description, icon, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, nullString(description), nullString(icon), userID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return c, nil
}

// categoryVisible reports whether the category is a system category or one of
// the user's own.
func categoryVisible(ctx context.Context, q querier, userID, categoryID string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gear_categories WHERE id = ? AND (user_id IS NULL OR user_id = ?)`,
		categoryID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking category: %w", err)
	}
	return count > 0, nil
}
