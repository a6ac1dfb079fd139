package dto

import (
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	UserID          string                `json:"user_id"`
	Message         string                `json:"message"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        *string               `json:"category"`
	AssignedTo      *string               `json:"assigned_to"`
	Source          *string               `json:"source"`
	EscalationLevel *string               `json:"escalation_level"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status    domain.TicketStatus `json:"status"`
	ChangedBy string              `json:"changed_by"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	Message         string                `json:"message"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        *string               `json:"category,omitempty"`
	AssignedTo      *string               `json:"assigned_to,omitempty"`
	Source          *string               `json:"source,omitempty"`
	EscalationLevel *string               `json:"escalation_level,omitempty"`
	ResolutionNotes *string               `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ResolvedAt      *time.Time            `json:"resolved_at,omitempty"`
}

// TicketListResponse bundles a page of tickets with pagination metadata.
type TicketListResponse struct {
	Tickets    []TicketResponse   `json:"tickets"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse describes the page window.
type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewTicketResponse maps a domain ticket to its wire form.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              ticket.ID,
		UserID:          ticket.UserID,
		Message:         ticket.Message,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		Category:        ticket.Category,
		AssignedTo:      ticket.AssignedTo,
		Source:          ticket.Source,
		EscalationLevel: ticket.EscalationLevel,
		ResolutionNotes: ticket.ResolutionNotes,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ResolvedAt:      ticket.ResolvedAt,
	}
}
