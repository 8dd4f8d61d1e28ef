package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"property-manager/core/importer"
	"property-manager/core/storage"
	"property-manager/feature/booking/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConflictError is the hard rejection returned by direct booking mutation
// when the requested dates overlap existing bookings. Bulk import downgrades
// the same condition to report warnings instead.
type ConflictError struct {
	Conflicts []importer.ConflictRecord
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested dates conflict with %d existing booking(s)", len(e.Conflicts))
}

// BookingInput carries the validated fields for a direct booking mutation.
type BookingInput struct {
	PropertyID string    `json:"property_id"`
	GuestName  string    `json:"guest_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	Type       string    `json:"type"`
	Notes      string    `json:"notes"`
}

// Service runs booking operations: the bulk import pipeline and the direct
// create/update/delete flow used outside imports.
type Service struct {
	db      *gorm.DB
	engine  *importer.Engine
	adapter *ImportAdapter
	writer  *Writer
	store   storage.Client
	bucket  string
	logger  *zap.Logger
}

// NewService creates a new booking service. store may be nil when object
// storage is not configured.
func NewService(db *gorm.DB, logger *zap.Logger, store storage.Client, bucket string) *Service {
	writer := NewWriter()
	return &Service{
		db:      db,
		engine:  importer.NewEngine(db, logger),
		adapter: NewImportAdapter(writer),
		writer:  writer,
		store:   store,
		bucket:  bucket,
		logger:  logger,
	}
}

// ImportBookings runs one bulk booking import batch and archives the report.
func (s *Service) ImportBookings(ctx context.Context, rows []importer.RawRow, mode importer.Mode, actor string) (*importer.Report, error) {
	report, err := s.engine.Run(ctx, s.adapter, rows, mode, actor)
	if err != nil {
		return report, err
	}
	s.archiveReport(ctx, report)
	return report, nil
}

// CreateBooking creates one booking directly. Any overlap with an existing
// non-cancelled booking on the same property is a hard rejection.
func (s *Service) CreateBooking(ctx context.Context, input BookingInput, actor string) (*models.Booking, error) {
	rng := importer.DateRange{Start: input.StartDate, End: input.EndDate}
	if !rng.Valid() {
		return nil, errors.New("end date must be after start date")
	}

	b := &models.Booking{
		PropertyID: input.PropertyID,
		GuestName:  input.GuestName,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Status:     statusMapping.Map(input.Status),
		Type:       typeMapping.Map(input.Type),
		Notes:      input.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflicts, err := s.loadConflicts(ctx, tx, input.PropertyID, rng, "")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
		return s.writer.CreateBooking(ctx, tx, b, actor)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBooking updates one booking directly, with the same hard overlap
// rejection; the booking's own range is excluded from the check.
func (s *Service) UpdateBooking(ctx context.Context, id string, input BookingInput, actor string) (*models.Booking, error) {
	rng := importer.DateRange{Start: input.StartDate, End: input.EndDate}
	if !rng.Valid() {
		return nil, errors.New("end date must be after start date")
	}

	var updated models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return fmt.Errorf("load booking %s: %w", id, err)
		}
		before := b

		conflicts, err := s.loadConflicts(ctx, tx, input.PropertyID, rng, id)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		b.PropertyID = input.PropertyID
		b.GuestName = input.GuestName
		b.StartDate = input.StartDate
		b.EndDate = input.EndDate
		b.Status = statusMapping.Map(input.Status)
		b.Type = typeMapping.Map(input.Type)
		b.Notes = input.Notes

		if err := s.writer.UpdateBooking(ctx, tx, &before, &b, actor); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBooking removes one booking directly.
func (s *Service) DeleteBooking(ctx context.Context, id, actor string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return fmt.Errorf("load booking %s: %w", id, err)
		}
		return s.writer.DeleteBooking(ctx, tx, &b, actor)
	})
}

// loadConflicts queries the store for non-cancelled bookings on the property
// whose half-open ranges overlap the candidate. excludeID drops the booking
// being updated from its own check.
func (s *Service) loadConflicts(ctx context.Context, tx *gorm.DB, propertyID string, rng importer.DateRange, excludeID string) ([]importer.ConflictRecord, error) {
	query := tx.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("status <> ?", models.StatusCancelled).
		Where("start_date < ? AND end_date > ?", rng.End, rng.Start)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var existing []models.Booking
	if err := query.Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("load overlapping bookings: %w", err)
	}

	conflicts := make([]importer.ConflictRecord, 0, len(existing))
	for _, b := range existing {
		conflicts = append(conflicts, importer.ConflictRecord{
			Range:    importer.DateRange{Start: b.StartDate, End: b.EndDate},
			EntityID: b.ID,
			Kind:     b.Type,
		})
	}
	return conflicts, nil
}

// archiveReport uploads the finished report to object storage, best-effort.
func (s *Service) archiveReport(ctx context.Context, report *importer.Report) {
	if s.store == nil || s.bucket == "" {
		return
	}
	object := fmt.Sprintf("reports/booking-%s.json", time.Now().UTC().Format("20060102T150405"))
	if err := storage.PutJSON(ctx, s.store, s.bucket, object, report); err != nil {
		s.logger.Warn("failed to archive import report",
			zap.String("object", object),
			zap.Error(err),
		)
	}
}
