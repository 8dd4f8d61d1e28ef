package booking

import (
	"context"
	"testing"
	"time"

	"property-manager/feature/booking/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCreateBooking_Direct(t *testing.T) {
	db := setupTestDB(t, "svc_create")
	svc := NewService(db, zap.NewNop(), nil, "")

	b, err := svc.CreateBooking(context.Background(), BookingInput{
		PropertyID: "prop-1",
		GuestName:  "Alice",
		StartDate:  date("2024-06-01"),
		EndDate:    date("2024-06-10"),
		Status:     "confirmed",
		Type:       "guest",
	}, "tester")

	assert.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, models.TypeGuest, b.Type)
}

func TestCreateBooking_OverlapIsHardConflict(t *testing.T) {
	db := setupTestDB(t, "svc_conflict")
	svc := NewService(db, zap.NewNop(), nil, "")
	seedBooking(t, db, "b-1", "2024-06-01", "2024-06-10", models.StatusConfirmed, models.TypeGuest)

	_, err := svc.CreateBooking(context.Background(), BookingInput{
		PropertyID: "prop-1",
		StartDate:  date("2024-06-05"),
		EndDate:    date("2024-06-12"),
	}, "tester")

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "b-1", conflict.Conflicts[0].EntityID)

	// The rejected booking never lands.
	var count int64
	assert.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateBooking_TouchingRangesAllowed(t *testing.T) {
	db := setupTestDB(t, "svc_touching")
	svc := NewService(db, zap.NewNop(), nil, "")
	seedBooking(t, db, "b-1", "2024-06-01", "2024-06-10", models.StatusConfirmed, models.TypeGuest)

	_, err := svc.CreateBooking(context.Background(), BookingInput{
		PropertyID: "prop-1",
		StartDate:  date("2024-06-10"),
		EndDate:    date("2024-06-15"),
	}, "tester")

	assert.NoError(t, err)
}

func TestCreateBooking_InvalidRange(t *testing.T) {
	db := setupTestDB(t, "svc_range")
	svc := NewService(db, zap.NewNop(), nil, "")

	_, err := svc.CreateBooking(context.Background(), BookingInput{
		PropertyID: "prop-1",
		StartDate:  date("2024-06-10"),
		EndDate:    date("2024-06-01"),
	}, "tester")

	assert.EqualError(t, err, "end date must be after start date")
}

func TestUpdateBooking_ExcludesOwnRange(t *testing.T) {
	db := setupTestDB(t, "svc_update")
	svc := NewService(db, zap.NewNop(), nil, "")
	seedBooking(t, db, "b-1", "2024-06-01", "2024-06-10", models.StatusConfirmed, models.TypeGuest)

	// Shrinking within its own dates must not conflict with itself.
	updated, err := svc.UpdateBooking(context.Background(), "b-1", BookingInput{
		PropertyID: "prop-1",
		GuestName:  "Alice",
		StartDate:  date("2024-06-02"),
		EndDate:    date("2024-06-08"),
		Status:     "confirmed",
	}, "tester")

	assert.NoError(t, err)
	assert.Equal(t, "2024-06-02", updated.StartDate.Format("2006-01-02"))
}

func TestUpdateBooking_ConflictWithOtherBooking(t *testing.T) {
	db := setupTestDB(t, "svc_update_conflict")
	svc := NewService(db, zap.NewNop(), nil, "")
	seedBooking(t, db, "b-1", "2024-06-01", "2024-06-10", models.StatusConfirmed, models.TypeGuest)
	seedBooking(t, db, "b-2", "2024-06-15", "2024-06-20", models.StatusConfirmed, models.TypeGuest)

	_, err := svc.UpdateBooking(context.Background(), "b-2", BookingInput{
		PropertyID: "prop-1",
		StartDate:  date("2024-06-08"),
		EndDate:    date("2024-06-16"),
	}, "tester")

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "b-1", conflict.Conflicts[0].EntityID)
}

func TestDeleteBooking(t *testing.T) {
	db := setupTestDB(t, "svc_delete")
	svc := NewService(db, zap.NewNop(), nil, "")
	seedBooking(t, db, "b-1", "2024-06-01", "2024-06-10", models.StatusConfirmed, models.TypeGuest)

	assert.NoError(t, svc.DeleteBooking(context.Background(), "b-1", "tester"))

	var count int64
	assert.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
