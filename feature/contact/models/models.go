package models

import "time"

// Contact roles. Unrecognized import values fall back to RoleOther.
const (
	RoleOwner   = "OWNER"
	RoleGuest   = "GUEST"
	RoleAgency  = "AGENCY"
	RoleCleaner = "CLEANER"
	RoleOther   = "OTHER"
)

// Contact is a canonical contact record. Uniqueness is keyed on email when
// one is present; contacts without an email are matched by full name.
type Contact struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	FirstName string    `gorm:"size:128;not null" json:"first_name"`
	LastName  string    `gorm:"size:128;not null" json:"last_name"`
	Email     *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone     string    `gorm:"size:64" json:"phone,omitempty"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName maps the model to the contacts table.
func (Contact) TableName() string {
	return "contacts"
}

// FullName returns the contact's display name.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContactProperty links a contact to a property. Link records are removed by
// the store's ON DELETE CASCADE rules when either side is deleted.
type ContactProperty struct {
	ContactID  string    `gorm:"primaryKey;size:36" json:"contact_id"`
	PropertyID string    `gorm:"primaryKey;size:36" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`

	Contact *Contact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName maps the model to the contact_properties table.
func (ContactProperty) TableName() string {
	return "contact_properties"
}
