package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/centraldesk/helpdesk-service/internal/api/dto"
	"github.com/centraldesk/helpdesk-service/internal/service"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// InteractionsHandler exposes the ticket thread endpoints.
type InteractionsHandler struct {
	service *service.InteractionService
}

// NewInteractionsHandler constructs handler.
func NewInteractionsHandler(interactionService *service.InteractionService) *InteractionsHandler {
	return &InteractionsHandler{service: interactionService}
}

// CreateInteraction POST /api/interactions.
func (h *InteractionsHandler) CreateInteraction(c *fiber.Ctx) error {
	var req dto.CreateInteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	interaction, err := h.service.CreateInteraction(c.UserContext(), service.InteractionCreateInput{
		UserID:    req.UserID,
		TicketID:  req.TicketID,
		Message:   req.Message,
		SentBy:    req.SentBy,
		Timestamp: req.Timestamp,
		Channel:   req.Channel,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("interaction created", dto.NewInteractionResponse(interaction)))
}

// GetInteraction GET /api/interactions/:id.
func (h *InteractionsHandler) GetInteraction(c *fiber.Ctx) error {
	interaction, err := h.service.GetInteraction(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("interaction fetched", dto.NewInteractionResponse(interaction)))
}

// ListByTicket GET /api/interactions/ticket/:ticketId.
func (h *InteractionsHandler) ListByTicket(c *fiber.Ctx) error {
	interactions, err := h.service.ListByTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(
		fmt.Sprintf("%d interactions found", len(interactions)),
		dto.NewInteractionResponses(interactions)))
}

// CountByTicket GET /api/interactions/ticket/:ticketId/count.
func (h *InteractionsHandler) CountByTicket(c *fiber.Ctx) error {
	count, err := h.service.CountByTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("interactions counted", fiber.Map{"count": count}))
}

// ListByUser GET /api/interactions/user/:userId.
func (h *InteractionsHandler) ListByUser(c *fiber.Ctx) error {
	interactions, err := h.service.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(
		fmt.Sprintf("%d interactions found for user", len(interactions)),
		dto.NewInteractionResponses(interactions)))
}

// UpdateInteraction PUT /api/interactions/:id.
func (h *InteractionsHandler) UpdateInteraction(c *fiber.Ctx) error {
	var req dto.UpdateInteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidInput("invalid payload")
	}

	interaction, err := h.service.UpdateInteraction(c.UserContext(), c.Params("id"), service.InteractionUpdateInput{
		Message: req.Message,
		SentBy:  req.SentBy,
		Channel: req.Channel,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("interaction updated", dto.NewInteractionResponse(interaction)))
}

// DeleteInteraction DELETE /api/interactions/:id.
func (h *InteractionsHandler) DeleteInteraction(c *fiber.Ctx) error {
	if err := h.service.DeleteInteraction(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("interaction deleted", nil))
}
