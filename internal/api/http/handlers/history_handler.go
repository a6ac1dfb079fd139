package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/centraldesk/helpdesk-service/internal/api/dto"
	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/service"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// HistoryHandler exposes the audit trail endpoints.
type HistoryHandler struct {
	service *service.HistoryService
}

// NewHistoryHandler constructs handler.
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: historyService}
}

// RecordChange POST /api/ticket-history.
func (h *HistoryHandler) RecordChange(c *fiber.Ctx) error {
	var req dto.RecordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	entry, err := h.service.RecordChange(c.UserContext(), recordChangeInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("history entry recorded", dto.NewHistoryEntryResponse(entry)))
}

// RecordMultipleChanges POST /api/ticket-history/batch.
func (h *HistoryHandler) RecordMultipleChanges(c *fiber.Ctx) error {
	var req dto.RecordMultipleChangesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	inputs := make([]service.RecordChangeInput, 0, len(req.Changes))
	for _, change := range req.Changes {
		inputs = append(inputs, recordChangeInput(change))
	}

	results, err := h.service.RecordMultipleChanges(c.UserContext(), inputs)
	if err != nil {
		return err
	}

	entries := make([]dto.HistoryEntryResponse, 0, len(results))
	for _, result := range results {
		entries = append(entries, dto.NewHistoryEntryResponse(result.Entry))
	}
	return c.Status(http.StatusCreated).JSON(dto.OK(
		fmt.Sprintf("%d history entries recorded", len(entries)), entries))
}

// GetByID GET /api/ticket-history/:id.
func (h *HistoryHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.service.GetHistoryByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("history entry fetched", dto.NewHistoryEntryResponse(entry)))
}

// GetByTicket GET /api/ticket-history/ticket/:ticketId.
func (h *HistoryHandler) GetByTicket(c *fiber.Ctx) error {
	entries, err := h.service.GetHistoryByTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(
		fmt.Sprintf("%d history entries found", len(entries)),
		dto.NewHistoryEntryResponses(entries)))
}

// CountByTicket GET /api/ticket-history/ticket/:ticketId/count.
func (h *HistoryHandler) CountByTicket(c *fiber.Ctx) error {
	count, err := h.service.CountByTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("history entries counted", fiber.Map{"count": count}))
}

// LatestByTicket GET /api/ticket-history/ticket/:ticketId/latest.
func (h *HistoryHandler) LatestByTicket(c *fiber.Ctx) error {
	entry, err := h.service.GetLatestByTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	if entry == nil {
		return c.JSON(dto.OK("ticket has no history", nil))
	}
	return c.JSON(dto.OK("latest history entry fetched", dto.NewHistoryEntryResponse(entry)))
}

// ActivityReport GET /api/ticket-history/ticket/:ticketId/report.
func (h *HistoryHandler) ActivityReport(c *fiber.Ctx) error {
	report, err := h.service.GenerateActivityReport(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("activity report generated", dto.NewActivityReportResponse(report)))
}

// GetByUser GET /api/ticket-history/user/:userId.
func (h *HistoryHandler) GetByUser(c *fiber.Ctx) error {
	entries, err := h.service.GetHistoryByActor(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(
		fmt.Sprintf("%d changes found for user", len(entries)),
		dto.NewHistoryEntryResponses(entries)))
}

// GetByStatus GET /api/ticket-history/status/:status.
func (h *HistoryHandler) GetByStatus(c *fiber.Ctx) error {
	status := domain.TicketStatus(c.Params("status"))
	entries, err := h.service.GetHistoryByStatus(c.UserContext(), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(
		fmt.Sprintf("%d changes found for status '%s'", len(entries), status),
		dto.NewHistoryEntryResponses(entries)))
}

// GetByDateRange GET /api/ticket-history/date-range?start_date=&end_date=.
func (h *HistoryHandler) GetByDateRange(c *fiber.Ctx) error {
	entries, err := h.service.GetHistoryByDateRange(c.UserContext(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(
		fmt.Sprintf("%d history entries found in range", len(entries)),
		dto.NewHistoryEntryResponses(entries)))
}

func recordChangeInput(req dto.RecordChangeRequest) service.RecordChangeInput {
	return service.RecordChangeInput{
		TicketID:  req.TicketID,
		Status:    req.Status,
		ChangedBy: req.ChangedBy,
		ChangedAt: req.ChangedAt,
		Notes:     req.Notes,
	}
}
