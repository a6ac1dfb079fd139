package domain

import "time"

// MaxHistoryNotesLength bounds the optional notes field.
const MaxHistoryNotesLength = 1000

// TicketHistory is an immutable audit trail entry. One row is appended per
// audited ticket mutation; rows are never updated or deleted afterwards.
type TicketHistory struct {
	ID        string
	TicketID  string
	Status    TicketStatus
	ChangedBy string
	ChangedAt time.Time
	Notes     string
}

// ActivityReport summarizes the full history of one ticket. It is derived on
// demand from the chronological entry list and is never persisted.
type ActivityReport struct {
	TotalChanges  int
	FirstChange   *TicketHistory
	LastChange    *TicketHistory
	StatusChanges []TicketHistory
	UniqueUsers   []string
}
