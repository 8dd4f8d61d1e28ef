package booking

import (
	"context"
	"errors"
	"fmt"

	"property-manager/core/importer"
	"property-manager/feature/booking/models"

	"gorm.io/gorm"
)

// Import column names.
const (
	colBookingID    = "bookingId"
	colPropertyName = "propertyName"
	colGuestName    = "guestName"
	colStartDate    = "startDate"
	colEndDate      = "endDate"
	colStatus       = "status"
	colType         = "type"
	colNotes        = "notes"
)

// refBooking indexes existing booking IDs so update-mode rows can address
// them explicitly. Bookings have no name identity.
const refBooking importer.ReferenceKind = "booking"

// statusMapping accepts the booking statuses and silently defaults
// unrecognized values to PENDING.
var statusMapping = importer.NewEnumMapping("booking-status", models.StatusPending,
	models.StatusConfirmed, models.StatusCancelled)

// typeMapping defaults unrecognized booking types to GUEST.
var typeMapping = importer.NewEnumMapping("booking-type", models.TypeGuest,
	models.TypeOwner, models.TypeMaintenance)

// bookingSchema is the validation contract for bulk booking import rows.
var bookingSchema = &importer.Schema{
	Entity: "booking",
	Fields: []importer.FieldSpec{
		{Name: colBookingID, Label: "Booking ID", Type: importer.FieldString},
		{Name: colPropertyName, Label: "Property", Type: importer.FieldString, Required: true},
		{Name: colGuestName, Label: "Guest name", Type: importer.FieldString},
		{Name: colStartDate, Label: "Start date", Type: importer.FieldDate, Required: true},
		{Name: colEndDate, Label: "End date", Type: importer.FieldDate, Required: true},
		{Name: colStatus, Label: "Status", Type: importer.FieldEnum, Enum: statusMapping},
		{Name: colType, Label: "Type", Type: importer.FieldEnum, Enum: typeMapping},
		{Name: colNotes, Label: "Notes", Type: importer.FieldString},
	},
}

// ImportAdapter binds the bulk booking import pipeline to the engine.
type ImportAdapter struct {
	writer *Writer
}

// NewImportAdapter returns the booking import adapter.
func NewImportAdapter(writer *Writer) *ImportAdapter {
	return &ImportAdapter{writer: writer}
}

// Name identifies the pipeline's target entity.
func (a *ImportAdapter) Name() string {
	return "booking"
}

// Schema returns the booking row contract.
func (a *ImportAdapter) Schema() *importer.Schema {
	return bookingSchema
}

// Preload snapshots properties for reference resolution and every
// non-cancelled booking's date range for overlap checking, in one pass before
// the row loop. Overlap checks run against this snapshot only: sibling rows
// created by the same batch are not cross-checked.
func (a *ImportAdapter) Preload(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext) error {
	type propertyRow struct {
		ID   string
		Name string
	}
	var properties []propertyRow
	if err := tx.WithContext(ctx).Table("properties").Select("id", "name").Find(&properties).Error; err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	propIndex := bc.Refs(importer.RefProperty)
	for _, p := range properties {
		propIndex.Add(p.ID, p.Name)
	}

	var bookings []models.Booking
	if err := tx.WithContext(ctx).Where("status <> ?", models.StatusCancelled).Find(&bookings).Error; err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	bookingIndex := bc.Refs(refBooking)
	for _, b := range bookings {
		bookingIndex.Add(b.ID, b.ID)
		bc.Ranges().Add(b.PropertyID, importer.RangeEntry{
			Range:    importer.DateRange{Start: b.StartDate, End: b.EndDate},
			EntityID: b.ID,
			Kind:     b.Type,
		})
	}
	return nil
}

// Identify matches the row against existing bookings by explicit booking ID.
// Rows without one always take the create path.
func (a *ImportAdapter) Identify(bc *importer.BatchContext, rec *importer.Record) (string, bool) {
	id := rec.String(colBookingID)
	if id == "" {
		return "", false
	}
	if bc.Refs(refBooking).HasID(id) {
		return id, true
	}
	return "", false
}

// Identity renders the row's identity for diagnostics.
func (a *ImportAdapter) Identity(rec *importer.Record) string {
	if id := rec.String(colBookingID); id != "" {
		return fmt.Sprintf("booking %q", id)
	}
	return fmt.Sprintf("booking for %q", rec.String(colPropertyName))
}

// Create persists a new booking. The property reference is never
// auto-created; overlaps against the preloaded ranges are downgraded to
// warnings — the row still imports.
func (a *ImportAdapter) Create(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record, _ importer.Mode, actor string) ([]importer.Diagnostic, error) {
	resolved, err := importer.NewResolver(bc).Resolve(ctx, tx, importer.RefProperty, rec.String(colPropertyName), importer.ResolveOptions{})
	if err != nil {
		return nil, err
	}

	rng, err := recordRange(rec)
	if err != nil {
		return nil, err
	}

	warnings := overlapWarnings(rec.Number(), bc.Ranges().Conflicts(resolved.ID, rng))

	b := &models.Booking{
		PropertyID: resolved.ID,
		GuestName:  rec.String(colGuestName),
		StartDate:  rng.Start,
		EndDate:    rng.End,
		Status:     rec.String(colStatus),
		Type:       rec.String(colType),
		Notes:      rec.String(colNotes),
	}
	if err := a.writer.CreateBooking(ctx, tx, b, actor); err != nil {
		return nil, err
	}
	return warnings, nil
}

// Update applies the row to an existing booking, re-running the overlap check
// against every range except the booking's own.
func (a *ImportAdapter) Update(ctx context.Context, tx *gorm.DB, bc *importer.BatchContext, rec *importer.Record, id, actor string) ([]importer.Diagnostic, error) {
	var b models.Booking
	if err := tx.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("load booking %s: %w", id, err)
	}
	before := b

	resolved, err := importer.NewResolver(bc).Resolve(ctx, tx, importer.RefProperty, rec.String(colPropertyName), importer.ResolveOptions{})
	if err != nil {
		return nil, err
	}

	rng, err := recordRange(rec)
	if err != nil {
		return nil, err
	}

	var warnings []importer.Diagnostic
	for _, c := range bc.Ranges().Conflicts(resolved.ID, rng) {
		if c.EntityID == id {
			continue
		}
		warnings = append(warnings, overlapWarning(rec.Number(), c))
	}

	b.PropertyID = resolved.ID
	b.GuestName = rec.String(colGuestName)
	b.StartDate = rng.Start
	b.EndDate = rng.End
	b.Status = rec.String(colStatus)
	b.Type = rec.String(colType)
	b.Notes = rec.String(colNotes)

	if err := a.writer.UpdateBooking(ctx, tx, &before, &b, actor); err != nil {
		return nil, err
	}
	return warnings, nil
}

// recordRange extracts and validates the row's date range. A non-increasing
// range is a row-level validation error.
func recordRange(rec *importer.Record) (importer.DateRange, error) {
	start, _ := rec.Date(colStartDate)
	end, _ := rec.Date(colEndDate)
	rng := importer.DateRange{Start: start, End: end}
	if !rng.Valid() {
		return importer.DateRange{}, errors.New("End date must be after start date")
	}
	return rng, nil
}

func overlapWarning(row int, c importer.ConflictRecord) importer.Diagnostic {
	return importer.Diagnostic{
		Row:     row,
		Message: fmt.Sprintf("dates overlap existing %s booking (%s)", c.Kind, c.Range),
	}
}

func overlapWarnings(row int, conflicts []importer.ConflictRecord) []importer.Diagnostic {
	var out []importer.Diagnostic
	for _, c := range conflicts {
		out = append(out, overlapWarning(row, c))
	}
	return out
}
