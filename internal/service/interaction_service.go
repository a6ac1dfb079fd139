package service

import (
	"context"
	"strings"
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/repository"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// InteractionService manages messages exchanged on ticket threads.
type InteractionService struct {
	interactions repository.InteractionRepository
	now          func() time.Time
}

// NewInteractionService constructs the service.
func NewInteractionService(interactionRepo repository.InteractionRepository) *InteractionService {
	return &InteractionService{
		interactions: interactionRepo,
		now:          time.Now,
	}
}

// InteractionCreateInput describes a new thread message.
type InteractionCreateInput struct {
	UserID    string
	TicketID  string
	Message   string
	SentBy    string
	Timestamp *time.Time
	Channel   *string
}

// InteractionUpdateInput describes the mutable fields of a message.
type InteractionUpdateInput struct {
	Message *string
	SentBy  *string
	Channel *string
}

// CreateInteraction validates and persists one thread message. The timestamp
// defaults to now.
func (s *InteractionService) CreateInteraction(ctx context.Context, input InteractionCreateInput) (*domain.Interaction, error) {
	if input.UserID == "" || input.TicketID == "" {
		return nil, apperr.InvalidInput("user_id and ticket_id are required")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" || len(message) > domain.MaxInteractionMessageLength {
		return nil, apperr.InvalidInputf("message is required and must be at most %d characters", domain.MaxInteractionMessageLength)
	}
	sentBy := strings.TrimSpace(input.SentBy)
	if sentBy == "" || len(sentBy) > domain.MaxInteractionSentByLength {
		return nil, apperr.InvalidInputf("sent_by is required and must be at most %d characters", domain.MaxInteractionSentByLength)
	}
	if input.Channel != nil && len(*input.Channel) > domain.MaxInteractionChannelLength {
		return nil, apperr.InvalidInputf("channel must be at most %d characters", domain.MaxInteractionChannelLength)
	}

	interaction := &domain.Interaction{
		UserID:    input.UserID,
		TicketID:  input.TicketID,
		Message:   message,
		SentBy:    sentBy,
		Timestamp: s.now(),
		Channel:   input.Channel,
	}
	if input.Timestamp != nil {
		interaction.Timestamp = *input.Timestamp
	}

	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, apperr.Wrap("create interaction", err)
	}
	return interaction, nil
}

// GetInteraction fetches a single message.
func (s *InteractionService) GetInteraction(ctx context.Context, id string) (*domain.Interaction, error) {
	if id == "" {
		return nil, apperr.InvalidInput("id is required")
	}
	interaction, err := s.interactions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("fetch interaction", err)
	}
	return interaction, nil
}

// ListByTicket returns a ticket's conversation in chronological order.
func (s *InteractionService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Interaction, error) {
	if ticketID == "" {
		return nil, apperr.InvalidInput("ticket_id is required")
	}
	interactions, err := s.interactions.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperr.Wrap("list interactions by ticket", err)
	}
	if interactions == nil {
		interactions = []domain.Interaction{}
	}
	return interactions, nil
}

// ListByUser returns a user's messages, newest first.
func (s *InteractionService) ListByUser(ctx context.Context, userID string) ([]domain.Interaction, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user_id is required")
	}
	interactions, err := s.interactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("list interactions by user", err)
	}
	if interactions == nil {
		interactions = []domain.Interaction{}
	}
	return interactions, nil
}

// CountByTicket returns the number of messages on one ticket.
func (s *InteractionService) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	if ticketID == "" {
		return 0, apperr.InvalidInput("ticket_id is required")
	}
	count, err := s.interactions.CountByTicket(ctx, ticketID)
	if err != nil {
		return 0, apperr.Wrap("count interactions", err)
	}
	return count, nil
}

// UpdateInteraction mutates message text, sender label or channel. The
// owning user and ticket references are fixed at creation.
func (s *InteractionService) UpdateInteraction(ctx context.Context, id string, input InteractionUpdateInput) (*domain.Interaction, error) {
	interaction, err := s.GetInteraction(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" || len(message) > domain.MaxInteractionMessageLength {
			return nil, apperr.InvalidInputf("message is required and must be at most %d characters", domain.MaxInteractionMessageLength)
		}
		interaction.Message = message
	}
	if input.SentBy != nil {
		sentBy := strings.TrimSpace(*input.SentBy)
		if sentBy == "" || len(sentBy) > domain.MaxInteractionSentByLength {
			return nil, apperr.InvalidInputf("sent_by is required and must be at most %d characters", domain.MaxInteractionSentByLength)
		}
		interaction.SentBy = sentBy
	}
	if input.Channel != nil {
		if len(*input.Channel) > domain.MaxInteractionChannelLength {
			return nil, apperr.InvalidInputf("channel must be at most %d characters", domain.MaxInteractionChannelLength)
		}
		interaction.Channel = input.Channel
	}

	if err := s.interactions.Update(ctx, interaction); err != nil {
		return nil, apperr.Wrap("update interaction", err)
	}
	return interaction, nil
}

// DeleteInteraction removes one message.
func (s *InteractionService) DeleteInteraction(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidInput("id is required")
	}
	if err := s.interactions.Delete(ctx, id); err != nil {
		return apperr.Wrap("delete interaction", err)
	}
	return nil
}
