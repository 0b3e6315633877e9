package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/erazemk/gearbox/internal/model"
)

var gearColumns = []string{
	"g.id", "g.user_id", "g.category_id", "g.name", "g.brand", "g.model", "g.serial_number",
	"g.description", "g.purchase_date", "g.purchase_price", "g.current_value", "g.condition_rating",
	"g.status", "g.location", "g.notes", "g.created_at", "g.updated_at",
	"c.id", "c.name", "c.description", "c.icon", "c.user_id", "c.created_at", "c.updated_at",
}

// gearQuery selects gear items joined with their category.
func gearQuery() squirrel.SelectBuilder {
	return builder.Select(gearColumns...).
		From("gear_items g").
		Join("gear_categories c ON c.id = g.category_id")
}

// GearUpdate describes a change to an existing gear item.
type GearUpdate struct {
	// Apply merges the requested changes into the stored item and validates
	// the result. A returned error aborts the update.
	Apply func(item *model.GearItem) error

	// Specifications and Reminders replace the item's full sets when non-nil.
	// A non-nil empty slice clears the set.
	Specifications []model.Specification
	Reminders      []model.MaintenanceReminder
}

// ListGearItems returns the user's items with category and images, newest first.
func ListGearItems(ctx context.Context, db *sql.DB, userID string) ([]model.GearItem, error) {
	items, err := queryGear(ctx, db, gearQuery().
		Where(squirrel.Eq{"g.user_id": userID}).
		OrderBy("g.created_at DESC", "g.id"))
	if err != nil {
		return nil, fmt.Errorf("listing gear items: %w", err)
	}

	if err := attachImages(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetGearItem returns one of the user's items with all associations.
func GetGearItem(ctx context.Context, db *sql.DB, userID, id string) (*model.GearItem, error) {
	item, err := getOwnedGear(ctx, db, userID, id)
	if err != nil {
		return nil, err
	}

	items := []model.GearItem{*item}
	if err := attachImages(ctx, db, items); err != nil {
		return nil, err
	}
	item = &items[0]

	if item.Specifications, err = listSpecifications(ctx, db, id); err != nil {
		return nil, err
	}
	if item.MaintenanceRecords, err = listMaintenanceRecords(ctx, db, id); err != nil {
		return nil, err
	}
	if item.MaintenanceReminders, err = listReminders(ctx, db, id); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateGearItem stores a new item owned by userID together with its
// specifications and reminders. The item's own UserID is ignored.
func CreateGearItem(ctx context.Context, db *sql.DB, userID string, item *model.GearItem, specs []model.Specification, reminders []model.MaintenanceReminder) (*model.GearItem, error) {
	id := newID()

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		ok, err := categoryVisible(ctx, tx, userID, item.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("category %s does not exist", item.CategoryID)
		}

		ts := now()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO gear_items (id, user_id, category_id, name, brand, model, serial_number, description,
			     purchase_date, purchase_price, current_value, condition_rating, status, location, notes,
			     created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, userID, item.CategoryID, item.Name, nullString(item.Brand), nullString(item.Model),
			nullString(item.SerialNumber), nullString(item.Description), nullTime(item.PurchaseDate),
			nullFloat(item.PurchasePrice), nullFloat(item.CurrentValue), nullInt(item.ConditionRating),
			item.Status, nullString(item.Location), nullString(item.Notes), ts, ts,
		)
		if err != nil {
			return fmt.Errorf("creating gear item: %w", err)
		}

		if err := insertSpecifications(ctx, tx, id, specs); err != nil {
			return err
		}
		return insertReminders(ctx, tx, id, reminders)
	})
	if err != nil {
		return nil, err
	}

	return GetGearItem(ctx, db, userID, id)
}

// UpdateGearItem applies upd to one of the user's items in a single
// transaction and returns the updated item with all associations.
func UpdateGearItem(ctx context.Context, db *sql.DB, userID, id string, upd GearUpdate) (*model.GearItem, error) {
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		item, err := getOwnedGear(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		if upd.Apply != nil {
			if err := upd.Apply(item); err != nil {
				return err
			}
		}

		ok, err := categoryVisible(ctx, tx, userID, item.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("category %s does not exist", item.CategoryID)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE gear_items SET category_id = ?, name = ?, brand = ?, model = ?, serial_number = ?,
			     description = ?, purchase_date = ?, purchase_price = ?, current_value = ?,
			     condition_rating = ?, status = ?, location = ?, notes = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?`,
			item.CategoryID, item.Name, nullString(item.Brand), nullString(item.Model),
			nullString(item.SerialNumber), nullString(item.Description), nullTime(item.PurchaseDate),
			nullFloat(item.PurchasePrice), nullFloat(item.CurrentValue), nullInt(item.ConditionRating),
			item.Status, nullString(item.Location), nullString(item.Notes), now(),
			id, userID,
		)
		if err != nil {
			return fmt.Errorf("updating gear item: %w", err)
		}

		if upd.Specifications != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM item_specifications WHERE gear_item_id = ?`, id); err != nil {
				return fmt.Errorf("clearing specifications: %w", err)
			}
			if err := insertSpecifications(ctx, tx, id, upd.Specifications); err != nil {
				return err
			}
		}

		if upd.Reminders != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM maintenance_reminders WHERE gear_item_id = ?`, id); err != nil {
				return fmt.Errorf("clearing reminders: %w", err)
			}
			if err := insertReminders(ctx, tx, id, upd.Reminders); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetGearItem(ctx, db, userID, id)
}

// DeleteGearItem deletes one of the user's items and everything that
// references it. It returns the URLs of the deleted images so the caller can
// remove the stored files.
func DeleteGearItem(ctx context.Context, db *sql.DB, userID, id string) ([]string, error) {
	var urls []string

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := getOwnedGear(ctx, tx, userID, id); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `SELECT image_url FROM item_images WHERE gear_item_id = ?`, id)
		if err != nil {
			return fmt.Errorf("listing images: %w", err)
		}
		for rows.Next() {
			var url string
			if err := rows.Scan(&url); err != nil {
				rows.Close()
				return fmt.Errorf("scanning image url: %w", err)
			}
			urls = append(urls, url)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("listing images: %w", err)
		}

		// Children first; the item row goes last so foreign keys hold throughout.
		cascade := []string{
			`DELETE FROM item_specifications WHERE gear_item_id = ?`,
			`DELETE FROM maintenance_records WHERE gear_item_id = ?`,
			`DELETE FROM maintenance_reminders WHERE gear_item_id = ?`,
			`DELETE FROM item_images WHERE gear_item_id = ?`,
			`DELETE FROM shared_access WHERE gear_item_id = ?`,
			`DELETE FROM gear_items WHERE id = ?`,
		}
		for _, stmt := range cascade {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("deleting gear item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// GearItemExists returns ErrGearNotFound unless the user owns the item.
func GearItemExists(ctx context.Context, db *sql.DB, userID, id string) error {
	_, err := getOwnedGear(ctx, db, userID, id)
	return err
}

func getOwnedGear(ctx context.Context, q querier, userID, id string) (*model.GearItem, error) {
	query, args, err := gearQuery().
		Where(squirrel.Eq{"g.id": id, "g.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building gear query: %w", err)
	}

	item, err := scanGear(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGearNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting gear item: %w", err)
	}
	return item, nil
}

func queryGear(ctx context.Context, q querier, sb squirrel.SelectBuilder) ([]model.GearItem, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building gear query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.GearItem{}
	for rows.Next() {
		item, err := scanGear(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning gear item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanGear(row rowScanner) (*model.GearItem, error) {
	g := &model.GearItem{}
	c := &model.Category{}
	var brand, mdl, serial, description, location, notes sql.NullString
	var categoryDescription, categoryIcon, categoryOwner sql.NullString
	var purchasePrice, currentValue sql.NullFloat64
	var rating sql.NullInt64

	err := row.Scan(&g.ID, &g.UserID, &g.CategoryID, &g.Name, &brand, &mdl, &serial,
		&description, &g.PurchaseDate, &purchasePrice, &currentValue, &rating,
		&g.Status, &location, &notes, &g.CreatedAt, &g.UpdatedAt,
		&c.ID, &c.Name, &categoryDescription, &categoryIcon, &categoryOwner, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.Brand = brand.String
	g.Model = mdl.String
	g.SerialNumber = serial.String
	g.Description = description.String
	g.Location = location.String
	g.Notes = notes.String
	g.PurchasePrice = floatPtr(purchasePrice)
	g.CurrentValue = floatPtr(currentValue)
	g.ConditionRating = intPtr(rating)

	c.Description = categoryDescription.String
	c.Icon = categoryIcon.String
	c.UserID = stringPtr(categoryOwner)
	g.Category = c

	return g, nil
}

// attachImages loads the images of all items with a single query.
func attachImages(ctx context.Context, q querier, items []model.GearItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
		items[i].Images = []model.Image{}
	}

	query, args, err := builder.
		Select("id", "gear_item_id", "image_url", "image_type", "caption", "created_at", "updated_at").
		From("item_images").
		Where(squirrel.Eq{"gear_item_id": ids}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return fmt.Errorf("building image query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	byItem := make(map[string][]model.Image)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return fmt.Errorf("scanning image: %w", err)
		}
		byItem[img.GearItemID] = append(byItem[img.GearItemID], *img)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing images: %w", err)
	}

	for i := range items {
		if imgs, ok := byItem[items[i].ID]; ok {
			items[i].Images = imgs
		}
	}
	return nil
}

func listSpecifications(ctx context.Context, q querier, gearItemID string) ([]model.Specification, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, gear_item_id, spec_name, spec_value, spec_unit, created_at, updated_at
		 FROM item_specifications WHERE gear_item_id = ? ORDER BY created_at, rowid`, gearItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing specifications: %w", err)
	}
	defer rows.Close()

	var specs []model.Specification
	for rows.Next() {
		var s model.Specification
		var unit sql.NullString
		if err := rows.Scan(&s.ID, &s.GearItemID, &s.Name, &s.Value, &unit, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning specification: %w", err)
		}
		s.Unit = unit.String
		specs = append(specs, s)
	}
	return specs, rows.Err()
}

func insertSpecifications(ctx context.Context, tx *sql.Tx, gearItemID string, specs []model.Specification) error {
	ts := now()
	for _, s := range specs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO item_specifications (id, gear_item_id, spec_name, spec_value, spec_unit, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			newID(), gearItemID, s.Name, s.Value, nullString(s.Unit), ts, ts,
		)
		if err != nil {
			return fmt.Errorf("creating specification: %w", err)
		}
	}
	return nil
}
