package model

// GearStats summarizes a user's collection.
type GearStats struct {
	TotalItems     int             `json:"totalItems"`
	TotalValue     float64         `json:"totalValue"`
	MaintenanceDue int             `json:"maintenanceDue"`
	ByCategory     []CategoryCount `json:"byCategory"`
	ByStatus       []StatusCount   `json:"byStatus"`
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

// StatusCount is the number of items with one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
