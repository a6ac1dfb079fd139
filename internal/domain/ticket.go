package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusEscalated  TicketStatus = "escalated"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// MaxTicketMessageLength bounds the free-text message on creation.
const MaxTicketMessageLength = 1000

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID              string
	UserID          string
	Message         string
	Status          TicketStatus
	Priority        TicketPriority
	Category        *string
	AssignedTo      *string
	Source          *string
	EscalationLevel *string
	ResolutionNotes *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

// IsValid reports whether s is a member of the status enumeration.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved,
		TicketStatusClosed, TicketStatusPending, TicketStatusEscalated:
		return true
	}
	return false
}

// IsValid reports whether p is a member of the priority enumeration.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// CanTransition reports whether a ticket may move between two statuses.
// Transitions are currently unrestricted: any enumerated status may follow
// any other. Tightening the lifecycle is a change to this function only.
func CanTransition(from, to TicketStatus) bool {
	return from.IsValid() && to.IsValid()
}
