package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/erazemk/gearbox/internal/model"
)

// ShareRequest describes a new sharing grant.
type ShareRequest struct {
	RecipientEmail string
	// GearItemID limits the grant to one item; nil shares all items.
	GearItemID     *string
	AccessLevel    string
	ExpirationDate *time.Time
}

const shareColumns = `id, user_id, shared_with_id, gear_item_id, access_level, expiration_date, created_at, updated_at`

// CreateShare grants the recipient access to the owner's gear.
func CreateShare(ctx context.Context, db *sql.DB, ownerID string, req ShareRequest) (*model.SharedAccess, error) {
	level := req.AccessLevel
	if level == "" {
		level = model.AccessView
	}
	if !model.ValidAccessLevel(level) {
		return nil, invalid("invalid access level %q", level)
	}

	var share *model.SharedAccess
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		var recipientID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, req.RecipientEmail).Scan(&recipientID)
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("getting recipient: %w", err)
		}
		if recipientID == ownerID {
			return invalid("cannot share gear with yourself")
		}

		if req.GearItemID != nil {
			if _, err := getOwnedGear(ctx, tx, ownerID, *req.GearItemID); err != nil {
				return err
			}
		}

		ts := now()
		share = &model.SharedAccess{
			ID:           newID(),
			UserID:       ownerID,
			SharedWithID: recipientID,
			GearItemID:   req.GearItemID,
			AccessLevel:  level,
			CreatedAt:    ts,
			UpdatedAt:    ts,
		}
		if req.ExpirationDate != nil {
			exp := req.ExpirationDate.UTC()
			share.ExpirationDate = &exp
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO shared_access (`+shareColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			share.ID, share.UserID, share.SharedWithID, share.GearItemID, share.AccessLevel,
			nullTime(share.ExpirationDate), share.CreatedAt, share.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating share: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// ListShares returns the grants the owner has issued, newest first.
func ListShares(ctx context.Context, db *sql.DB, ownerID string) ([]model.SharedAccess, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+shareColumns+` FROM shared_access WHERE user_id = ? ORDER BY created_at DESC, id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shares: %w", err)
	}
	defer rows.Close()

	shares := []model.SharedAccess{}
	for rows.Next() {
		var s model.SharedAccess
		var gearItemID sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.SharedWithID, &gearItemID, &s.AccessLevel,
			&s.ExpirationDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning share: %w", err)
		}
		s.GearItemID = stringPtr(gearItemID)
		shares = append(shares, s)
	}
	return shares, rows.Err()
}

// DeleteShare revokes one of the owner's grants.
func DeleteShare(ctx context.Context, db *sql.DB, ownerID, shareID string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM shared_access WHERE id = ? AND user_id = ?`, shareID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting share: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting share: %w", err)
	}
	if n == 0 {
		return ErrShareNotFound
	}
	return nil
}

// ownerGrants collects one owner's active grants to a recipient.
type ownerGrants struct {
	owner   model.SharedBy
	all     bool
	itemIDs []string
}

// ListSharedWithMe returns the items other users have shared with userID
// through grants that are unexpired at at. An "all items" grant covers every
// item the owner has at query time. Items appear once even when several
// grants cover them.
func ListSharedWithMe(ctx context.Context, db *sql.DB, userID string, at time.Time) ([]model.GearItem, error) {
	grants, err := activeGrants(ctx, db, userID, at)
	if err != nil {
		return nil, err
	}

	shared := []model.GearItem{}
	seen := make(map[string]bool)
	for _, g := range grants {
		where := squirrel.Eq{"g.user_id": g.owner.ID}
		if !g.all {
			where["g.id"] = g.itemIDs
		}

		items, err := queryGear(ctx, db, gearQuery().Where(where).OrderBy("g.created_at DESC", "g.id"))
		if err != nil {
			return nil, fmt.Errorf("listing shared gear: %w", err)
		}
		if err := attachImages(ctx, db, items); err != nil {
			return nil, err
		}

		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			owner := g.owner
			item.SharedBy = &owner
			shared = append(shared, item)
		}
	}
	return shared, nil
}

// activeGrants groups the recipient's unexpired grants by owner, in order of
// each owner's first grant.
func activeGrants(ctx context.Context, db *sql.DB, recipientID string, at time.Time) ([]*ownerGrants, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT s.user_id, s.gear_item_id, u.first_name, u.last_name, u.email
		 FROM shared_access s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.shared_with_id = ? AND (s.expiration_date IS NULL OR s.expiration_date > ?)
		 ORDER BY s.created_at, s.id`,
		recipientID, at.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}
	defer rows.Close()

	var ordered []*ownerGrants
	byOwner := make(map[string]*ownerGrants)
	for rows.Next() {
		var ownerID, email string
		var gearItemID, first, last sql.NullString
		if err := rows.Scan(&ownerID, &gearItemID, &first, &last, &email); err != nil {
			return nil, fmt.Errorf("scanning grant: %w", err)
		}

		g, ok := byOwner[ownerID]
		if !ok {
			u := model.User{FirstName: first.String, LastName: last.String}
			g = &ownerGrants{owner: model.SharedBy{ID: ownerID, Name: u.DisplayName(), Email: email}}
			byOwner[ownerID] = g
			ordered = append(ordered, g)
		}
		if gearItemID.Valid {
			g.itemIDs = append(g.itemIDs, gearItemID.String)
		} else {
			g.all = true
		}
	}
	return ordered, rows.Err()
}
