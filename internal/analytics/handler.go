package analytics

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes GET /api/analytics behind the admin guard.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	report, err := h.svc.Report(c.UserContext())
	if err != nil {
		h.logger.Error("analytics.report failed", slog.Any("error", err))
		return err
	}
	return c.Status(http.StatusOK).JSON(report)
}
