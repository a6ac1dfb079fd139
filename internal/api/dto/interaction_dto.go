package dto

import (
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
)

// CreateInteractionRequest payload.
type CreateInteractionRequest struct {
	UserID    string     `json:"user_id"`
	TicketID  string     `json:"ticket_id"`
	Message   string     `json:"message"`
	SentBy    string     `json:"sent_by"`
	Timestamp *time.Time `json:"timestamp"`
	Channel   *string    `json:"channel"`
}

// UpdateInteractionRequest payload. Nil fields are left untouched.
type UpdateInteractionRequest struct {
	Message *string `json:"message"`
	SentBy  *string `json:"sent_by"`
	Channel *string `json:"channel"`
}

// InteractionResponse is the wire form of a thread message.
type InteractionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TicketID  string    `json:"ticket_id"`
	Message   string    `json:"message"`
	SentBy    string    `json:"sent_by"`
	Timestamp time.Time `json:"timestamp"`
	Channel   *string   `json:"channel,omitempty"`
}

// NewInteractionResponse maps a domain interaction to its wire form.
func NewInteractionResponse(interaction *domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:        interaction.ID,
		UserID:    interaction.UserID,
		TicketID:  interaction.TicketID,
		Message:   interaction.Message,
		SentBy:    interaction.SentBy,
		Timestamp: interaction.Timestamp,
		Channel:   interaction.Channel,
	}
}

// NewInteractionResponses maps a list of interactions preserving order.
func NewInteractionResponses(interactions []domain.Interaction) []InteractionResponse {
	result := make([]InteractionResponse, 0, len(interactions))
	for i := range interactions {
		result = append(result, NewInteractionResponse(&interactions[i]))
	}
	return result
}
