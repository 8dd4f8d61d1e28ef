package catalog

import (
	"property-manager/core/importer"
	"property-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/properties/import", h.HandleImportProperties)
}

// importRequest is the already-parsed tabular payload: ordered column headers
// plus one string map per row. Parsing the source file is the caller's job.
type importRequest struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Mode    string              `json:"mode"`
}

// HandleImportProperties runs a bulk property import batch.
// @Summary Bulk import properties
// @Description Imports parsed tabular property rows in create, update or both mode and returns the batch report.
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body importRequest true "Parsed rows and import mode"
// @Success 200 {object} importer.Report "Import report"
// @Failure 400 {object} map[string]string "Invalid payload or mode"
// @Failure 500 {object} importer.Report "Batch aborted"
// @Router /catalog/properties/import [post]
func (h *Handler) HandleImportProperties(c *fiber.Ctx) error {
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
	actor := actorID(c)

	report, err := h.service.ImportProperties(c.Context(), rows, mode, actor)
	if err != nil {
		l.Error("Property import aborted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}

// actorID returns the authenticated actor attribution supplied by the
// caller. Authorization itself is enforced upstream.
func actorID(c *fiber.Ctx) string {
	if actor := c.Get("X-Actor-Id"); actor != "" {
		return actor
	}
	return "system"
}
