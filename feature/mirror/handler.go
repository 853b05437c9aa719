package mirror

import (
	"notion-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the reconciliation entry points over HTTP. Runs execute
// synchronously: the response carries the finished run report.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync trigger routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/full", h.HandleFullSync)
	group.Post("/rolling", h.HandleRollingSync)
}

// HandleFullSync runs a full resync of the current month.
func (h *Handler) HandleFullSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.log, c)
	l.Info("Full resync triggered")

	report, err := h.service.FullResync(c.Context())
	return h.respond(c, l, report, err)
}

// HandleRollingSync runs a rolling sync over the lookahead window.
func (h *Handler) HandleRollingSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.log, c)
	l.Info("Rolling sync triggered")

	report, err := h.service.RollingSync(c.Context())
	return h.respond(c, l, report, err)
}

func (h *Handler) respond(c *fiber.Ctx, l *zap.Logger, report *Report, err error) error {
	if err != nil {
		l.Error("Reconciliation run failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			// Partial failures still produce a complete report
			body["report"] = report
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(report)
}
