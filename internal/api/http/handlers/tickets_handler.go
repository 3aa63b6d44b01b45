package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/smartdesk/internal/api/dto"
	"github.com/spec-kit/smartdesk/internal/auth"
	"github.com/spec-kit/smartdesk/internal/repository"
	"github.com/spec-kit/smartdesk/internal/service"
	apperrors "github.com/spec-kit/smartdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket listing and lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	sort := repository.TicketSort(c.Query("sort", string(repository.SortByDate)))
	tickets, err := h.service.ListTickets(c.Context(), caller, sort)
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == nil && req.AdminNotes == nil {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	input := service.TicketUpdateInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	}
	if err := h.service.UpdateTicket(c.Context(), caller, c.Params("id"), input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTicket(c.Context(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func callerFromContext(c *fiber.Ctx) (service.Caller, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return service.Caller{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Caller{UserID: principal.User.ID, Admin: principal.IsAdmin()}, nil
}
