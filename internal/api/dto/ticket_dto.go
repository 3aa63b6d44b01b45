package dto

import (
	"time"

	"github.com/spec-kit/smartdesk/internal/domain"
)

// AnalyzeRequest is the payload for both /api/analyze and /api/predict.
type AnalyzeRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// UpdateTicketRequest payload for PATCH /api/tickets/:id. Nil fields are
// left unchanged.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus `json:"status"`
	AdminNotes *string              `json:"admin_notes"`
}

// TicketResponse is the full ticket shape returned by listings.
type TicketResponse struct {
	ID                 string                `json:"id"`
	ExternalKey        string                `json:"external_key"`
	Subject            string                `json:"subject"`
	Body               string                `json:"body"`
	Category           string                `json:"category"`
	Queue              string                `json:"queue"`
	Priority           domain.TicketPriority `json:"priority"`
	Status             domain.TicketStatus   `json:"status"`
	ConfidenceCategory float64               `json:"confidence_category"`
	ConfidencePriority float64               `json:"confidence_priority"`
	Entities           map[string][]string   `json:"entities"`
	AdminNotes         string                `json:"admin_notes"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	UserName           string                `json:"user_name,omitempty"`
	UserEmail          string                `json:"user_email,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	entities := ticket.Entities
	if entities == nil {
		entities = map[string][]string{}
	}
	return TicketResponse{
		ID:                 ticket.ID,
		ExternalKey:        ticket.ExternalKey,
		Subject:            ticket.Subject,
		Body:               ticket.Body,
		Category:           ticket.Category,
		Queue:              ticket.Queue,
		Priority:           ticket.Priority,
		Status:             ticket.Status,
		ConfidenceCategory: ticket.ConfidenceCategory,
		ConfidencePriority: ticket.ConfidencePriority,
		Entities:           entities,
		AdminNotes:         ticket.AdminNotes,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
		UserName:           ticket.RequesterName,
		UserEmail:          ticket.RequesterEmail,
	}
}
