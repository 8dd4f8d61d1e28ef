package contact

import (
	"context"
	"fmt"

	"property-manager/core/audit"
	"property-manager/feature/contact/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Writer is the persistence boundary for contacts and their property links.
// Every mutation emits one audit entry in the same transaction.
type Writer struct{}

// NewWriter returns a contact entity writer.
func NewWriter() *Writer {
	return &Writer{}
}

// CreateContact persists a new contact.
func (w *Writer) CreateContact(ctx context.Context, tx *gorm.DB, c *models.Contact, actor string) error {
	c.ID = uuid.NewString()
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "contact",
		EntityID:   c.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("created contact %q", c.FullName()),
		After:      audit.Snapshot(c),
	})
}

// UpdateContact saves a modified contact. The before snapshot must be the
// state loaded prior to modification.
func (w *Writer) UpdateContact(ctx context.Context, tx *gorm.DB, before, after *models.Contact, actor string) error {
	if err := tx.WithContext(ctx).Save(after).Error; err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "contact",
		EntityID:   after.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("updated contact %q", after.FullName()),
		Before:     audit.Snapshot(before),
		After:      audit.Snapshot(after),
	})
}

// DeleteContact removes a contact. Property links go with it via the store's
// cascade rules.
func (w *Writer) DeleteContact(ctx context.Context, tx *gorm.DB, c *models.Contact, actor string) error {
	if err := tx.WithContext(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionDelete,
		EntityType: "contact",
		EntityID:   c.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("deleted contact %q", c.FullName()),
		Before:     audit.Snapshot(c),
	})
}

// LinkProperty associates a contact with a property, ignoring an already
// existing link.
func (w *Writer) LinkProperty(ctx context.Context, tx *gorm.DB, contactID, propertyID, actor string) error {
	link := &models.ContactProperty{ContactID: contactID, PropertyID: propertyID}
	res := tx.WithContext(ctx).
		Where("contact_id = ? AND property_id = ?", contactID, propertyID).
		FirstOrCreate(link)
	if res.Error != nil {
		return fmt.Errorf("link contact to property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "contact_property",
		EntityID:   contactID,
		UserID:     actor,
		Summary:    fmt.Sprintf("linked contact %s to property %s", contactID, propertyID),
	})
}
