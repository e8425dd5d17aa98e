package products

import "time"

// Product represents a catalog listing owned by a vendor. PriceCents avoids
// floating-point money.
type Product struct {
	ID          string
	VendorID    string
	Name        string
	Description string
	PriceCents  int64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
