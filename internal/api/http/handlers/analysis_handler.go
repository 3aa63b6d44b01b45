package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/smartdesk/internal/api/dto"
	"github.com/spec-kit/smartdesk/internal/auth"
	"github.com/spec-kit/smartdesk/internal/service"
	apperrors "github.com/spec-kit/smartdesk/pkg/util/errorutil"
)

// AnalysisHandler exposes the intake pipeline over HTTP.
type AnalysisHandler struct {
	service *service.TicketService
}

// NewAnalysisHandler constructs handler.
func NewAnalysisHandler(ticketService *service.TicketService) *AnalysisHandler {
	return &AnalysisHandler{service: ticketService}
}

// Analyze handles POST /api/analyze: classification without persistence,
// available without authentication.
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.Analyze(req.Subject, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Predict handles POST /api/predict: same analysis plus a single ticket
// insert for the authenticated caller.
func (h *AnalysisHandler) Predict(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, ticket, err := h.service.AnalyzeAndPersist(c.Context(), principal.User.ID, req.Subject, req.Body)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"subject":             result.Subject,
		"category":            result.Category,
		"queue":               result.Queue,
		"priority":            result.Priority,
		"confidence_category": result.ConfidenceCategory,
		"confidence_priority": result.ConfidencePriority,
		"rule_override":       result.RuleOverride,
		"override_keyword":    result.OverrideKeyword,
		"entities":            result.Entities,
		"ticket_id":           ticket.ID,
		"external_key":        ticket.ExternalKey,
		"status":              ticket.Status,
	})
}
