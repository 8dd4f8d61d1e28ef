package models

import "time"

// Destination is a canonical destination record. Destinations are small
// reference entities: bulk property import auto-creates them on demand with a
// country inferred from the static city lookup.
type Destination struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Country   string    `gorm:"size:128;not null" json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName maps the model to the destinations table.
func (Destination) TableName() string {
	return "destinations"
}

// Property is a canonical property record. Name matching in the import
// pipeline is case-insensitive, but uniqueness is not enforced at the store
// level; collisions resolve first-match.
type Property struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	Name          string `gorm:"size:255;not null;index" json:"name"`
	DestinationID string `gorm:"size:36;index" json:"destination_id,omitempty"`
	NumberOfRooms *int   `json:"number_of_rooms,omitempty"`

	// Pricing sub-entity; populated only when the import row's pricing
	// markers fire.
	BasePrice   *float64 `json:"base_price,omitempty"`
	CleaningFee *float64 `json:"cleaning_fee,omitempty"`
	Currency    string   `gorm:"size:8" json:"currency,omitempty"`

	// Cost sub-entity.
	MonthlyCost *float64 `json:"monthly_cost,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName maps the model to the properties table.
func (Property) TableName() string {
	return "properties"
}
