package vendors

import "time"

// Status tracks where a vendor sits in the approval workflow.
type Status string

// Vendor lifecycle states.
const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusSuspended Status = "SUSPENDED"
)

// Vendor represents a seller profile on the marketplace.
type Vendor struct {
	ID           string
	UserID       string
	BusinessName string
	Email        string
	PhoneNumber  string
	Address      string
	City         string
	State        string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
