package booking

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"property-manager/feature/booking/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, name string) (*fiber.App, *gorm.DB) {
	db := setupTestDB(t, name)
	app := fiber.New()
	svc := NewService(db, zap.NewNop(), nil, "")
	NewHandler(svc).RegisterRoutes(app)
	return app, db
}

func TestHandleCreateBooking(t *testing.T) {
	app, db := setupTestApp(t, "handler_create")

	body, _ := json.Marshal(map[string]any{
		"property_id": "prop-1",
		"guest_name":  "Alice",
		"start_date":  "2024-06-01T00:00:00Z",
		"end_date":    "2024-06-10T00:00:00Z",
		"status":      "confirmed",
	})
	req := httptest.NewRequest("POST", "/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var created models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusConfirmed, created.Status)

	var count int64
	assert.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleCreateBooking_Conflict(t *testing.T) {
	app, _ := setupTestApp(t, "handler_conflict")

	payload := map[string]any{
		"property_id": "prop-1",
		"start_date":  "2024-06-01T00:00:00Z",
		"end_date":    "2024-06-10T00:00:00Z",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	// Same dates again: hard conflict.
	body, _ = json.Marshal(payload)
	req = httptest.NewRequest("POST", "/bookings/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["error"], "conflict")
	assert.NotEmpty(t, out["conflicts"])
}

func TestHandleUpdateBooking_NotFound(t *testing.T) {
	app, _ := setupTestApp(t, "handler_notfound")

	body, _ := json.Marshal(map[string]any{
		"property_id": "prop-1",
		"start_date":  "2024-06-01T00:00:00Z",
		"end_date":    "2024-06-10T00:00:00Z",
	})
	req := httptest.NewRequest("PUT", "/bookings/ghost", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleDeleteBooking(t *testing.T) {
	app, db := setupTestApp(t, "handler_delete")
	seedBooking(t, db, "b-1", "2024-06-01", "2024-06-10", models.StatusConfirmed, models.TypeGuest)

	req := httptest.NewRequest("DELETE", "/bookings/b-1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
