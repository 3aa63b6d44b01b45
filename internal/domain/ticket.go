package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Valid reports whether the status is part of the lifecycle.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels assigned by the classifier or
// escalated by the keyword rule.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Ticket is the aggregate for submitted support requests. Category, queue,
// priority and the confidences are filled in by the intake engine at creation
// time and are not recomputed afterwards.
type Ticket struct {
	ID                 string
	ExternalKey        string
	UserID             string
	Subject            string
	Body               string
	Category           string
	Queue              string
	Priority           TicketPriority
	Status             TicketStatus
	ConfidenceCategory float64
	ConfidencePriority float64
	Entities           map[string][]string
	AdminNotes         string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// RequesterName/RequesterEmail are populated for admin listings only.
	RequesterName  string
	RequesterEmail string
}
