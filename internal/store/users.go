package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/gearbox/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, account_status,
	password_reset_token, password_reset_expires, created_at, updated_at`

// CreateUser creates a new active user. The email must already be normalized.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, firstName, lastName string) (*model.User, error) {
	id := newID()
	ts := now()
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, account_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, email, passwordHash, nullString(firstName), nullString(lastName), model.AccountActive, ts, ts,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("creating user %s: %w", email, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if there is none.
func GetUser(ctx context.Context, db *sql.DB, id string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by normalized email, or nil if there is none.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUserPassword updates a user's password hash and invalidates any
// outstanding reset and refresh tokens.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, password_reset_token = NULL, password_reset_expires = NULL,
		 refresh_token = NULL, refresh_token_expires = NULL, updated_at = ?
		 WHERE id = ?`,
		passwordHash, now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// SetAccountStatus changes whether the user may sign in.
func SetAccountStatus(ctx context.Context, db *sql.DB, id, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET account_status = ?, updated_at = ? WHERE id = ?`,
		status, now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating account status: %w", err)
	}
	return nil
}

// SetPasswordResetToken stores the hash of a reset token and its expiry.
func SetPasswordResetToken(ctx context.Context, db *sql.DB, id, tokenHash string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_reset_token = ?, password_reset_expires = ?, updated_at = ? WHERE id = ?`,
		tokenHash, expiresAt.UTC(), now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting password reset token: %w", err)
	}
	return nil
}

// GetUserByResetToken returns the user holding an unexpired reset token with
// the given hash, or nil.
func GetUserByResetToken(ctx context.Context, db *sql.DB, tokenHash string, at time.Time) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE password_reset_token = ? AND password_reset_expires > ?`,
		tokenHash, at.UTC(),
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by reset token: %w", err)
	}
	return u, nil
}

// SetRefreshToken stores the hash of the user's refresh token, replacing any
// earlier one.
func SetRefreshToken(ctx context.Context, db *sql.DB, id, tokenHash string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET refresh_token = ?, refresh_token_expires = ? WHERE id = ?`,
		tokenHash, expiresAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken swaps an unexpired refresh token for a new one and
// returns its user. It returns nil if no user holds oldHash at time at; a
// token can be rotated only once.
func RotateRefreshToken(ctx context.Context, db *sql.DB, oldHash, newHash string, expiresAt, at time.Time) (*model.User, error) {
	var user *model.User
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users
			 WHERE refresh_token = ? AND refresh_token_expires > ?`,
			oldHash, at.UTC(),
		))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting user by refresh token: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET refresh_token = ?, refresh_token_expires = ? WHERE id = ?`,
			newHash, expiresAt.UTC(), u.ID,
		); err != nil {
			return fmt.Errorf("rotating refresh token: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ClearRefreshToken invalidates the user's refresh token.
func ClearRefreshToken(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET refresh_token = NULL, refresh_token_expires = NULL WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	var first, last, resetToken sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &first, &last, &u.AccountStatus,
		&resetToken, &u.PasswordResetExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.FirstName = first.String
	u.LastName = last.String
	u.PasswordResetToken = resetToken.String
	return u, nil
}
