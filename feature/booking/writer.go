package booking

import (
	"context"
	"fmt"

	"property-manager/core/audit"
	"property-manager/feature/booking/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Writer is the persistence boundary for bookings. Every mutation emits one
// audit entry in the same transaction; callers validate and resolve first.
type Writer struct{}

// NewWriter returns a booking entity writer.
func NewWriter() *Writer {
	return &Writer{}
}

// CreateBooking persists a new booking.
func (w *Writer) CreateBooking(ctx context.Context, tx *gorm.DB, b *models.Booking, actor string) error {
	b.ID = uuid.NewString()
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "booking",
		EntityID:   b.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("created %s booking %s to %s", b.Type, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02")),
		After:      audit.Snapshot(b),
	})
}

// UpdateBooking saves a modified booking. The before snapshot must be the
// state loaded prior to modification.
func (w *Writer) UpdateBooking(ctx context.Context, tx *gorm.DB, before, after *models.Booking, actor string) error {
	if err := tx.WithContext(ctx).Save(after).Error; err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "booking",
		EntityID:   after.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("updated booking %s", after.ID),
		Before:     audit.Snapshot(before),
		After:      audit.Snapshot(after),
	})
}

// DeleteBooking removes a booking.
func (w *Writer) DeleteBooking(ctx context.Context, tx *gorm.DB, b *models.Booking, actor string) error {
	if err := tx.WithContext(ctx).Delete(b).Error; err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return audit.Record(tx, audit.Entry{
		Action:     audit.ActionDelete,
		EntityType: "booking",
		EntityID:   b.ID,
		UserID:     actor,
		Summary:    fmt.Sprintf("deleted booking %s", b.ID),
		Before:     audit.Snapshot(b),
	})
}
