package catalog

import (
	"context"
	"fmt"

	"property-manager/core/audit"
	"property-manager/core/importer"
	"property-manager/feature/catalog/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Writer is the persistence boundary for catalog entities. It is the only
// component that mutates properties and destinations, and every mutation
// emits one audit entry in the same transaction. Callers must have validated
// and resolved inputs first; the writer performs no business validation.
type Writer struct{}

// NewWriter returns a catalog entity writer.
func NewWriter() *Writer {
	return &Writer{}
}

// CreateDestination persists a new destination.
func (w *Writer) CreateDestination(ctx context.Context, tx *gorm.DB, d *models.Destination, actor string) error {
	d.ID = uuid.NewString()
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "destination",
		EntityID:   d.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("created destination %q (%s)", d.Name, d.Country),
		After:      audit.Snapshot(d),
	})
}

// CreateProperty persists a new property.
func (w *Writer) CreateProperty(ctx context.Context, tx *gorm.DB, p *models.Property, actor string) error {
	p.ID = uuid.NewString()
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "property",
		EntityID:   p.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("created property %q", p.Name),
		After:      audit.Snapshot(p),
	})
}

// UpdateProperty saves a modified property. The before snapshot must be the
// state loaded prior to modification.
func (w *Writer) UpdateProperty(ctx context.Context, tx *gorm.DB, before, after *models.Property, actor string) error {
	if err := tx.WithContext(ctx).Save(after).Error; err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "property",
		EntityID:   after.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("updated property %q", after.Name),
		Before:     audit.Snapshot(before),
		After:      audit.Snapshot(after),
	})
}

// DeleteProperty removes a property. Dependent link records (contact
// associations) are cleaned up by the store's ON DELETE CASCADE rules, not
// re-implemented here.
func (w *Writer) DeleteProperty(ctx context.Context, tx *gorm.DB, p *models.Property, actor string) error {
	if err := tx.WithContext(ctx).Delete(p).Error; err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionDelete,
		EntityType: "property",
		EntityID:   p.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("deleted property %q", p.Name),
		Before:     audit.Snapshot(p),
	})
}

// CreateReference implements importer.ReferenceCreator for destinations:
// property import auto-creates a minimal destination with a country inferred
// from the static city lookup, falling back to "Unknown".
func (w *Writer) CreateReference(ctx context.Context, tx *gorm.DB, kind importer.ReferenceKind, name, actor string) (string, error) {
	if kind != importer.RefDestination {
		return "", fmt.Errorf("catalog writer cannot auto-create %s references", kind)
	}
	d := &models.Destination{
		Name:    name,
		Country: importer.CountryForCity(name),
	}
	if err := w.CreateDestination(ctx, tx, d, actor); err != nil {
		return "", err
	}
	return d.ID, nil
}
