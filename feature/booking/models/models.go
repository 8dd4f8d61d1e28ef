package models

import "time"

// Booking statuses. Unrecognized import values fall back to StatusPending.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Booking types, classifying who occupies the property.
const (
	TypeGuest       = "GUEST"
	TypeOwner       = "OWNER"
	TypeMaintenance = "MAINTENANCE"
)

// Booking is a canonical booking record. Dates form a half-open range
// [StartDate, EndDate); bookings carry no application-level uniqueness
// constraint — only the advisory overlap check guards double allocation.
type Booking struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PropertyID string    `gorm:"size:36;not null;index" json:"property_id"`
	GuestName  string    `gorm:"size:255" json:"guest_name,omitempty"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null" json:"end_date"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	Type       string    `gorm:"size:16;not null" json:"type"`
	Notes      string    `gorm:"size:1024" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName maps the model to the bookings table.
func (Booking) TableName() string {
	return "bookings"
}
