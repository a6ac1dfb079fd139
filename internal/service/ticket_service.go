package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/events"
	"github.com/centraldesk/helpdesk-service/internal/repository"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// TicketService owns ticket creation and status mutation.
type TicketService struct {
	tickets    repository.TicketRepository
	history    *HistoryService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	History    *HistoryService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	UserID          string
	Message         string
	Priority        domain.TicketPriority
	Category        *string
	AssignedTo      *string
	Source          *string
	EscalationLevel *string
}

// TicketListFilter describes listing filters plus 1-indexed pagination.
type TicketListFilter struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Category   *string
	AssignedTo *string
	UserID     *string
	Page       int
	Limit      int
}

// Pagination describes the page window of a listing result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TicketPage bundles one page of tickets with its pagination metadata.
type TicketPage struct {
	Tickets    []domain.Ticket
	Pagination Pagination
}

// CreateTicket validates input, persists the ticket and publishes a
// ticket_created event for asynchronous webhook delivery. The ticket always
// starts open regardless of caller input; priority defaults to normal.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if input.UserID == "" {
		return nil, apperr.InvalidInput("user_id is required")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apperr.InvalidInput("message is required")
	}
	if len(message) > domain.MaxTicketMessageLength {
		return nil, apperr.InvalidInputf("message must be at most %d characters", domain.MaxTicketMessageLength)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !priority.IsValid() {
		return nil, apperr.InvalidInputf("invalid priority: %s", priority)
	}

	ticket := &domain.Ticket{
		UserID:          input.UserID,
		Message:         message,
		Status:          domain.TicketStatusOpen,
		Priority:        priority,
		Category:        input.Category,
		AssignedTo:      input.AssignedTo,
		Source:          input.Source,
		EscalationLevel: input.EscalationLevel,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperr.Wrap("create ticket", err)
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Ticket: events.SnapshotTicket(ticket)},
	})
	return ticket, nil
}

// ListTickets returns one page of tickets matching the filter conjunction,
// newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) (*TicketPage, error) {
	page := filter.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, apperr.InvalidInput("page must be at least 1")
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	if limit < 1 || limit > 100 {
		return nil, apperr.InvalidInput("limit must be between 1 and 100")
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperr.InvalidInputf("invalid status: %s", *filter.Status)
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, apperr.InvalidInputf("invalid priority: %s", *filter.Priority)
	}

	repoFilter := repository.TicketFilter{
		Status:     filter.Status,
		Priority:   filter.Priority,
		Category:   filter.Category,
		AssignedTo: filter.AssignedTo,
		UserID:     filter.UserID,
	}
	tickets, total, err := s.tickets.List(ctx, repoFilter, limit, (page-1)*limit)
	if err != nil {
		return nil, apperr.Wrap("list tickets", err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}

	return &TicketPage{
		Tickets: tickets,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if id == "" {
		return nil, apperr.InvalidInput("id is required")
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("fetch ticket", err)
	}
	return ticket, nil
}

// UpdateStatus applies a status change and appends a matching audit entry.
// changedBy may be empty, in which case the ticket creator is recorded as
// the actor. The audit append is not optional: a status change without a
// history entry would corrupt the trail.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, changedBy string) (*domain.Ticket, error) {
	if id == "" {
		return nil, apperr.InvalidInput("id is required")
	}
	if !status.IsValid() {
		return nil, apperr.InvalidInputf("invalid status: %s", status)
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("fetch ticket", err)
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, apperr.InvalidInputf("cannot transition from %s to %s", current.Status, status)
	}

	ticket, err := s.tickets.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperr.Wrap("update ticket status", err)
	}

	actor := changedBy
	if actor == "" {
		actor = ticket.UserID
	}
	if _, err := s.history.RecordChange(ctx, RecordChangeInput{
		TicketID:  ticket.ID,
		Status:    status,
		ChangedBy: actor,
	}); err != nil {
		// The status write is already committed; surface the broken audit
		// trail rather than hiding it.
		return nil, apperr.Wrap("record status change", err)
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: status,
			ChangedBy: actor,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.dispatcher.Publish(event)
}
