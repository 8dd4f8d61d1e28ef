package catalog

import (
	"context"
	"fmt"

	"property-manager/core/importer"
	"property-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// Import column names.
const (
	colPropertyName    = "propertyName"
	colDestinationName = "destinationName"
	colNumberOfRooms   = "numberOfRooms"
	colBasePrice       = "basePrice"
	colCleaningFee     = "cleaningFee"
	colCurrency        = "currency"
	colMonthlyCost     = "monthlyCost"
)

// Optional sub-entity sections and their marker columns. A section is
// processed when any marker is non-blank on the source row.
const (
	sectionPricing = "pricing"
	sectionCost    = "cost"
)

// currencyMapping accepts the supported currency codes and defaults to EUR
// for anything unrecognized.
var currencyMapping = importer.NewEnumMapping("currency", "EUR", "USD", "GBP", "CHF")

// propertySchema is the validation contract for bulk property import rows.
var propertySchema = &importer.Schema{
	Entity: "property",
	Fields: []importer.FieldSpec{
		{Name: colPropertyName, Label: "Property name", Type: importer.FieldString, Required: true},
		{Name: colDestinationName, Label: "Destination", Type: importer.FieldString},
		{Name: colNumberOfRooms, Label: "Number of rooms", Type: importer.FieldInt},
		{Name: colBasePrice, Label: "Base price", Type: importer.FieldFloat},
		{Name: colCleaningFee, Label: "Cleaning fee", Type: importer.FieldFloat},
		{Name: colCurrency, Label: "Currency", Type: importer.FieldEnum, Enum: currencyMapping},
		{Name: colMonthlyCost, Label: "Monthly cost", Type: importer.FieldFloat},
	},
	Sections: map[string][]string{
		sectionPricing: {colBasePrice, colCleaningFee, colCurrency},
		sectionCost:    {colMonthlyCost},
	},
}

// ImportAdapter binds the bulk property import pipeline to the engine.
type ImportAdapter struct {
	writer *Writer
}

// NewImportAdapter returns the property import adapter.
func NewImportAdapter(writer *Writer) *ImportAdapter {
	return &ImportAdapter{writer: writer}
}

// Name identifies the pipeline's target entity.
func (a *ImportAdapter) Name() string {
	return "property"
}

// Schema returns the property row contract.
func (a *ImportAdapter) Schema() *importer.Schema {
	return propertySchema
}

// Preload snapshots all properties and destinations into the batch context in
// two queries, so the row loop never goes back to the database for reference
// resolution.
func (a *ImportAdapter) Preload(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext) error {
	var destinations []models.Destination
	if err := tx.WithContext(ctx).Select("id", "name").Find(&destinations).Error; err != nil {
		return fmt.Errorf("load destinations: %w", err)
	}
	destIndex := bc.Refs(importer.RefDestination)
	for _, d := range destinations {
		destIndex.Add(d.ID, d.Name)
	}

	var properties []models.Property
	if err := tx.WithContext(ctx).Select("id", "name").Find(&properties).Error; err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	propIndex := bc.Refs(importer.RefProperty)
	for _, p := range properties {
		propIndex.Add(p.ID, p.Name)
	}
	return nil
}

// Identify matches the row against existing properties by case-insensitive
// name, first match.
func (a *ImportAdapter) Identify(bc *importer.BatchContext, rec *importer.Record) (string, bool) {
	return bc.Refs(importer.RefProperty).IDForName(rec.String(colPropertyName))
}

// Identity renders the row's identity for diagnostics.
func (a *ImportAdapter) Identity(rec *importer.Record) string {
	return fmt.Sprintf("property %q", rec.String(colPropertyName))
}

// Create persists a new property, auto-creating its destination when the
// referenced name is unknown. The created property is added to the batch
// index so a later row with the same name sees it.
func (a *ImportAdapter) Create(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record, _ importer.Mode, actor string) ([]importer.Diagnostic, error) {
	p := &models.Property{Name: rec.String(colPropertyName)}

	if dest := rec.String(colDestinationName); dest != "" {
		resolved, err := importer.NewResolver(bc).Resolve(ctx, tx, importer.RefDestination, dest, importer.ResolveOptions{
			AutoCreate: true,
			Creator:    a.writer,
			Actor:      actor,
		})
		if err != nil {
			return nil, err
		}
		p.DestinationID = resolved.ID
	}

	a.applyFields(rec, p)

	if err := a.writer.CreateProperty(ctx, tx, p, actor); err != nil {
		return nil, err
	}
	bc.Refs(importer.RefProperty).Add(p.ID, p.Name)
	return nil, nil
}

// Update applies the row to an existing property. The destination reference
// is re-resolved only when the row names one.
func (a *ImportAdapter) Update(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record, id, actor string) ([]importer.Diagnostic, error) {
	var p models.Property
	if err := tx.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("load property %s: %w", id, err)
	}
	before := p

	if dest := rec.String(colDestinationName); dest != "" {
		resolved, err := importer.NewResolver(bc).Resolve(ctx, tx, importer.RefDestination, dest, importer.ResolveOptions{
			AutoCreate: true,
			Creator:    a.writer,
			Actor:      actor,
		})
		if err != nil {
			return nil, err
		}
		p.DestinationID = resolved.ID
	}

	a.applyFields(rec, &p)

	if err := a.writer.UpdateProperty(ctx, tx, &before, &p, actor); err != nil {
		return nil, err
	}
	return nil, nil
}

// applyFields copies the typed row values onto the model, honoring the
// pricing and cost marker sections. Absent values leave existing fields
// untouched.
func (a *ImportAdapter) applyFields(rec *importer.Record, p *models.Property) {
	if rooms, ok := rec.Int(colNumberOfRooms); ok {
		p.NumberOfRooms = &rooms
	}

	if rec.HasSection(sectionPricing) {
		if price, ok := rec.Float(colBasePrice); ok {
			p.BasePrice = &price
		}
		if fee, ok := rec.Float(colCleaningFee); ok {
			p.CleaningFee = &fee
		}
		p.Currency = rec.String(colCurrency)
		if p.Currency == "" {
			p.Currency = currencyMapping.Fallback()
		}
	}

	if rec.HasSection(sectionCost) {
		if cost, ok := rec.Float(colMonthlyCost); ok {
			p.MonthlyCost = &cost
		}
	}
}
