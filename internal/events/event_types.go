package events

import (
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries the full persisted ticket so downstream
// automation receives the generated id and timestamps.
type TicketCreatedPayload struct {
	Ticket TicketSnapshot `json:"ticket"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ChangedBy string              `json:"changed_by"`
}

// TicketSnapshot is the wire form of a ticket inside event payloads.
type TicketSnapshot struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	Message         string                `json:"message"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        *string               `json:"category,omitempty"`
	AssignedTo      *string               `json:"assigned_to,omitempty"`
	Source          *string               `json:"source,omitempty"`
	EscalationLevel *string               `json:"escalation_level,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// SnapshotTicket converts a domain ticket into its event wire form.
func SnapshotTicket(ticket *domain.Ticket) TicketSnapshot {
	return TicketSnapshot{
		ID:              ticket.ID,
		UserID:          ticket.UserID,
		Message:         ticket.Message,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		Category:        ticket.Category,
		AssignedTo:      ticket.AssignedTo,
		Source:          ticket.Source,
		EscalationLevel: ticket.EscalationLevel,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}
