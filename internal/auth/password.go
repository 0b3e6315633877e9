package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Lifetimes of the opaque tokens handed to users.
const (
	ResetTokenExpiry   = time.Hour
	RefreshTokenExpiry = 30 * 24 * time.Hour
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewResetToken returns a random password reset token and the digest to
// store in its place.
func NewResetToken() (token, digest string, err error) {
	token, digest, err = newOpaqueToken()
	if err != nil {
		return "", "", fmt.Errorf("generating reset token: %w", err)
	}
	return token, digest, nil
}

// NewRefreshToken returns a random refresh token and the digest to store in
// its place.
func NewRefreshToken() (token, digest string, err error) {
	token, digest, err = newOpaqueToken()
	if err != nil {
		return "", "", fmt.Errorf("generating refresh token: %w", err)
	}
	return token, digest, nil
}

// HashToken returns the stored form of an opaque token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newOpaqueToken() (string, string, error) {
	token, err := randomHex(32)
	if err != nil {
		return "", "", err
	}
	return token, HashToken(token), nil
}
