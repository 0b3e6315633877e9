package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User represents an account that owns gear.
type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	FirstName            string     `json:"firstName,omitempty"`
	LastName             string     `json:"lastName,omitempty"`
	AccountStatus        string     `json:"accountStatus"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Account statuses.
const (
	AccountActive    = "active"
	AccountInactive  = "inactive"
	AccountSuspended = "suspended"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// DisplayName joins the first and last name.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.AccountStatus == AccountActive
}

// ValidatePassword checks password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// NormalizeEmail lowercases and trims an address, returning an error if it is
// not a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.New("invalid email address")
	}
	return email, nil
}
