package model

import "time"

// Image is a stored picture attached to a gear item.
type Image struct {
	ID         string    `json:"id"`
	GearItemID string    `json:"gearItemId"`
	URL        string    `json:"imageUrl"`
	Type       string    `json:"imageType"`
	Caption    string    `json:"caption,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Image types.
const (
	ImageTypeMain     = "main"
	ImageTypeDetail   = "detail"
	ImageTypeReceipt  = "receipt"
	ImageTypeWarranty = "warranty"
	ImageTypeOther    = "other"
)

// ValidImageType reports whether t is a known image type.
func ValidImageType(t string) bool {
	switch t {
	case ImageTypeMain, ImageTypeDetail, ImageTypeReceipt, ImageTypeWarranty, ImageTypeOther:
		return true
	}
	return false
}
