package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/gearbox/internal/model"
)

// AddImages records already-stored image files against one of the user's
// items. All rows are inserted or none are.
func AddImages(ctx context.Context, db *sql.DB, userID, gearItemID string, images []model.Image) ([]model.Image, error) {
	created := make([]model.Image, 0, len(images))

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := getOwnedGear(ctx, tx, userID, gearItemID); err != nil {
			return err
		}

		ts := now()
		for _, img := range images {
			img.ID = newID()
			img.GearItemID = gearItemID
			if img.Type == "" {
				img.Type = model.ImageTypeMain
			}
			img.CreatedAt = ts
			img.UpdatedAt = ts

			_, err := tx.ExecContext(ctx,
				`INSERT INTO item_images (id, gear_item_id, image_url, image_type, caption, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				img.ID, gearItemID, img.URL, img.Type, nullString(img.Caption), img.CreatedAt, img.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("creating image: %w", err)
			}
			created = append(created, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteImage deletes an image on one of the user's items and returns the
// deleted row so the caller can remove the stored file.
func DeleteImage(ctx context.Context, db *sql.DB, userID, imageID string) (*model.Image, error) {
	var img *model.Image

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		var err error
		img, err = scanImage(tx.QueryRowContext(ctx,
			`SELECT i.id, i.gear_item_id, i.image_url, i.image_type, i.caption, i.created_at, i.updated_at
			 FROM item_images i
			 JOIN gear_items g ON g.id = i.gear_item_id
			 WHERE i.id = ? AND g.user_id = ?`,
			imageID, userID,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrImageNotFound
		}
		if err != nil {
			return fmt.Errorf("getting image: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM item_images WHERE id = ?`, imageID); err != nil {
			return fmt.Errorf("deleting image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func scanImage(row rowScanner) (*model.Image, error) {
	img := &model.Image{}
	var caption sql.NullString
	if err := row.Scan(&img.ID, &img.GearItemID, &img.URL, &img.Type, &caption, &img.CreatedAt, &img.UpdatedAt); err != nil {
		return nil, err
	}
	img.Caption = caption.String
	return img, nil
}
