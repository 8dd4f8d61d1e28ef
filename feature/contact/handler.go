package contact

import (
	"property-manager/core/importer"
	"property-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the contact feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the contact routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/contacts")
	group.Post("/import", h.HandleImportContacts)
}

type importRequest struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Mode    string              `json:"mode"`
}

// HandleImportContacts runs a bulk contact import batch.
// @Summary Bulk import contacts
// @Description Imports parsed tabular contact rows in create, update or both mode and returns the batch report.
// @Tags contact
// @Accept json
// @Produce json
// @Param request body importRequest true "Parsed rows and import mode"
// @Success 200 {object} importer.Report "Import report"
// @Failure 400 {object} map[string]string "Invalid payload or mode"
// @Failure 500 {object} importer.Report "Batch aborted"
// @Router /contacts/import [post]
func (h *Handler) HandleImportContacts(c *fiber.Ctx) error {
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
	actor := c.Get("X-Actor-Id")
	if actor == "" {
		actor = "system"
	}

	report, err := h.service.ImportContacts(c.Context(), rows, mode, actor)
	if err != nil {
		l.Error("Contact import aborted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}
