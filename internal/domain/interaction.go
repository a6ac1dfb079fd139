package domain

import "time"

// Interaction is one message exchanged on a ticket thread.
type Interaction struct {
	ID        string
	UserID    string
	TicketID  string
	Message   string
	SentBy    string
	Timestamp time.Time
	Channel   *string
}

// Bounds for interaction fields.
const (
	MaxInteractionMessageLength = 5000
	MaxInteractionSentByLength  = 100
	MaxInteractionChannelLength = 50
)
