package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/centraldesk/helpdesk-service/internal/api/dto"
	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/service"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		UserID:          req.UserID,
		Message:         req.Message,
		Priority:        req.Priority,
		Category:        req.Category,
		AssignedTo:      req.AssignedTo,
		Source:          req.Source,
		EscalationLevel: req.EscalationLevel,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("ticket created", dto.NewTicketResponse(ticket)))
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}

	tickets := make([]dto.TicketResponse, 0, len(page.Tickets))
	for i := range page.Tickets {
		tickets = append(tickets, dto.NewTicketResponse(&page.Tickets[i]))
	}
	return c.JSON(dto.OK("tickets fetched", dto.TicketListResponse{
		Tickets: tickets,
		Pagination: dto.PaginationResponse{
			Page:       page.Pagination.Page,
			Limit:      page.Pagination.Limit,
			Total:      page.Pagination.Total,
			TotalPages: page.Pagination.TotalPages,
		},
	}))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("ticket fetched", dto.NewTicketResponse(ticket)))
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.ChangedBy)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("ticket status updated", dto.NewTicketResponse(ticket)))
}

func parseTicketListQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{}

	if status := c.Query("status"); status != "" {
		value := domain.TicketStatus(status)
		filter.Status = &value
	}
	if priority := c.Query("priority"); priority != "" {
		value := domain.TicketPriority(priority)
		filter.Priority = &value
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}

	var err error
	if filter.Page, err = parsePositiveInt(c.Query("page"), 1); err != nil {
		return filter, apperr.InvalidInput("page must be a positive integer")
	}
	if filter.Limit, err = parsePositiveInt(c.Query("limit"), 10); err != nil {
		return filter, apperr.InvalidInput("limit must be a positive integer")
	}
	return filter, nil
}

func parsePositiveInt(val string, def int) (int, error) {
	if val == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, apperr.InvalidInput("value must be a positive integer")
	}
	return parsed, nil
}
