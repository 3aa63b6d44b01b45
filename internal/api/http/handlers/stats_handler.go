package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/smartdesk/internal/service"
)

// StatsHandler serves the aggregated dashboard statistics.
type StatsHandler struct {
	service *service.TicketService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(ticketService *service.TicketService) *StatsHandler {
	return &StatsHandler{service: ticketService}
}

// Stats GET /api/stats.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
