package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// RevokeToken records a token id as revoked until expiresAt, when the token
// would stop validating anyway. Revoking twice is harmless.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	if jti == "" {
		return invalid("token has no id")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	if _, err := PurgeExpiredTokens(ctx, db, now()); err != nil {
		slog.Warn("failed to purge expired revocations", "error", err)
	}
	return nil
}

// PurgeExpiredTokens drops revocations of tokens that expired before at and
// returns how many were removed.
func PurgeExpiredTokens(ctx context.Context, db *sql.DB, at time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	return result.RowsAffected()
}

// IsTokenRevoked reports whether a token id has been revoked.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
