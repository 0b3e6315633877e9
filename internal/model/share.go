package model

import "time"

// SharedAccess grants another user access to one gear item, or to all of the
// owner's items when GearItemID is nil.
type SharedAccess struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	SharedWithID   string     `json:"sharedWithId"`
	GearItemID     *string    `json:"gearItemId"`
	AccessLevel    string     `json:"accessLevel"`
	ExpirationDate *time.Time `json:"expirationDate"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Access levels.
const (
	AccessView = "view"
	AccessEdit = "edit"
)

// ValidAccessLevel reports whether l is a known access level.
func ValidAccessLevel(l string) bool {
	return l == AccessView || l == AccessEdit
}

// SharedBy identifies the owner who shared an item.
type SharedBy struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
