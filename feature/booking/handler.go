package booking

import (
	"errors"

	"property-manager/core/importer"
	"property-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for the booking feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the booking routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/bookings")
	group.Post("/import", h.HandleImportBookings)
	group.Post("/", h.HandleCreateBooking)
	group.Put("/:id", h.HandleUpdateBooking)
	group.Delete("/:id", h.HandleDeleteBooking)
}

type importRequest struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Mode    string              `json:"mode"`
}

// HandleImportBookings runs a bulk booking import batch.
// @Summary Bulk import bookings
// @Description Imports parsed tabular booking rows; overlaps are reported as warnings, not rejections.
// @Tags booking
// @Accept json
// @Produce json
// @Param request body importRequest true "Parsed rows and import mode"
// @Success 200 {object} importer.Report "Import report"
// @Failure 400 {object} map[string]string "Invalid payload or mode"
// @Failure 500 {object} importer.Report "Batch aborted"
// @Router /bookings/import [post]
func (h *Handler) HandleImportBookings(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	mode := importer.Mode(req.Mode)
	if !mode.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mode must be one of: create, update, both",
		})
	}

	rows := importer.RowsFromPayload(req.Columns, req.Rows)

	report, err := h.service.ImportBookings(c.Context(), rows, mode, actorID(c))
	if err != nil {
		l.Error("Booking import aborted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}

// HandleCreateBooking creates one booking directly. A date conflict with an
// existing booking rejects the request with 409.
// @Summary Create booking
// @Tags booking
// @Accept json
// @Produce json
// @Param request body BookingInput true "Booking fields"
// @Success 201 {object} models.Booking "Created booking"
// @Failure 409 {object} map[string]any "Date conflict"
// @Router /bookings [post]
func (h *Handler) HandleCreateBooking(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var input BookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	b, err := h.service.CreateBooking(c.Context(), input, actorID(c))
	if err != nil {
		return h.mutationError(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// HandleUpdateBooking updates one booking directly, with the same hard
// conflict rejection.
// @Summary Update booking
// @Tags booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body BookingInput true "Booking fields"
// @Success 200 {object} models.Booking "Updated booking"
// @Failure 409 {object} map[string]any "Date conflict"
// @Router /bookings/{id} [put]
func (h *Handler) HandleUpdateBooking(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var input BookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	b, err := h.service.UpdateBooking(c.Context(), c.Params("id"), input, actorID(c))
	if err != nil {
		return h.mutationError(c, l, err)
	}
	return c.JSON(b)
}

// HandleDeleteBooking removes one booking.
// @Summary Delete booking
// @Tags booking
// @Param id path string true "Booking ID"
// @Success 204 "Deleted"
// @Router /bookings/{id} [delete]
func (h *Handler) HandleDeleteBooking(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.DeleteBooking(c.Context(), c.Params("id"), actorID(c)); err != nil {
		return h.mutationError(c, l, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// mutationError maps direct-mutation failures onto HTTP statuses: conflicts
// to 409, missing bookings to 404, everything else to 500.
func (h *Handler) mutationError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     conflict.Error(),
			"conflicts": conflict.Conflicts,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "booking not found",
		})
	}
	l.Error("Booking mutation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func actorID(c *fiber.Ctx) string {
	if actor := c.Get("X-Actor-Id"); actor != "" {
		return actor
	}
	return "system"
}
