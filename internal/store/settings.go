package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// GetSetting returns a stored setting, or "" if it is unset.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

// ensureSetting stores candidate under key unless a value already exists and
// returns whichever value won. INSERT OR IGNORE keeps concurrent starts from
// overwriting each other.
func ensureSetting(ctx context.Context, db *sql.DB, key, candidate string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}
	return GetSetting(ctx, db, key)
}

// GetJWTSecret returns the token signing secret, generating and storing one on
// first use.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return ensureSetting(ctx, db, jwtSecretKey, hex.EncodeToString(buf))
}
