package service

import (
	"context"
	"fmt"
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/repository"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// HistoryService owns the ticket audit trail: appending entries, the read
// side queries, and the derived activity report.
type HistoryService struct {
	history repository.TicketHistoryRepository
	now     func() time.Time
}

// NewHistoryService constructs the service.
func NewHistoryService(historyRepo repository.TicketHistoryRepository) *HistoryService {
	return &HistoryService{
		history: historyRepo,
		now:     time.Now,
	}
}

// RecordChangeInput describes one audit entry to append.
type RecordChangeInput struct {
	TicketID  string
	Status    domain.TicketStatus
	ChangedBy string
	ChangedAt *time.Time
	Notes     string
}

// BatchItemResult reports the outcome for one entry of a batch recording.
type BatchItemResult struct {
	Index int
	Entry *domain.TicketHistory
	Err   error
}

// RecordChange validates and appends one audit entry. The timestamp defaults
// to now and the notes default to a generated string referencing the status.
func (s *HistoryService) RecordChange(ctx context.Context, input RecordChangeInput) (*domain.TicketHistory, error) {
	if input.TicketID == "" || input.Status == "" || input.ChangedBy == "" {
		return nil, apperr.InvalidInput("ticket_id, status and changed_by are required")
	}
	if len(input.Notes) > domain.MaxHistoryNotesLength {
		return nil, apperr.InvalidInputf("notes must be at most %d characters", domain.MaxHistoryNotesLength)
	}

	entry := &domain.TicketHistory{
		TicketID:  input.TicketID,
		Status:    input.Status,
		ChangedBy: input.ChangedBy,
		ChangedAt: s.now(),
		Notes:     input.Notes,
	}
	if input.ChangedAt != nil {
		entry.ChangedAt = *input.ChangedAt
	}
	if entry.Notes == "" {
		entry.Notes = fmt.Sprintf("Status alterado para: %s", input.Status)
	}

	if err := s.history.Create(ctx, entry); err != nil {
		return nil, apperr.Wrap("record history entry", err)
	}
	return entry, nil
}

// RecordMultipleChanges applies RecordChange sequentially in the supplied
// order, stopping at the first failure. There is no rollback: entries
// recorded before the failure stay persisted, and the returned results
// identify exactly which entries made it.
func (s *HistoryService) RecordMultipleChanges(ctx context.Context, inputs []RecordChangeInput) ([]BatchItemResult, error) {
	if len(inputs) == 0 {
		return nil, apperr.InvalidInput("change list must not be empty")
	}

	results := make([]BatchItemResult, 0, len(inputs))
	for i, input := range inputs {
		entry, err := s.RecordChange(ctx, input)
		results = append(results, BatchItemResult{Index: i, Entry: entry, Err: err})
		if err != nil {
			return results, apperr.Wrap(fmt.Sprintf("record change %d of %d", i+1, len(inputs)), err)
		}
	}
	return results, nil
}

// GetHistoryByTicket returns the canonical chronological view of one
// ticket's audit trail, oldest entry first.
func (s *HistoryService) GetHistoryByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if ticketID == "" {
		return nil, apperr.InvalidInput("ticket_id is required")
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperr.Wrap("fetch ticket history", err)
	}
	return entries, nil
}

// GetHistoryByActor returns the entries recorded by one user, newest first.
func (s *HistoryService) GetHistoryByActor(ctx context.Context, userID string) ([]domain.TicketHistory, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user_id is required")
	}
	entries, err := s.history.ListByActor(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("fetch history by user", err)
	}
	return entries, nil
}

// GetHistoryByStatus returns the entries recording one status, newest first.
func (s *HistoryService) GetHistoryByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.TicketHistory, error) {
	if status == "" {
		return nil, apperr.InvalidInput("status is required")
	}
	entries, err := s.history.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperr.Wrap("fetch history by status", err)
	}
	return entries, nil
}

// GetHistoryByDateRange returns entries with changed_at inside the inclusive
// [start, end] window, newest first. Bounds arrive as RFC 3339 strings.
func (s *HistoryService) GetHistoryByDateRange(ctx context.Context, startStr, endStr string) ([]domain.TicketHistory, error) {
	if startStr == "" || endStr == "" {
		return nil, apperr.InvalidInput("start_date and end_date are required")
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, apperr.InvalidInput("start_date is not a valid timestamp")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, apperr.InvalidInput("end_date is not a valid timestamp")
	}
	if start.After(end) {
		return nil, apperr.InvalidInput("start_date must not be after end_date")
	}

	entries, err := s.history.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, apperr.Wrap("fetch history by date range", err)
	}
	return entries, nil
}

// GetHistoryByID fetches a single audit entry.
func (s *HistoryService) GetHistoryByID(ctx context.Context, id string) (*domain.TicketHistory, error) {
	if id == "" {
		return nil, apperr.InvalidInput("id is required")
	}
	entry, err := s.history.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("fetch history entry", err)
	}
	return entry, nil
}

// GetLatestByTicket returns the most recent entry of the chronological
// sequence, or nil when the ticket has no history.
func (s *HistoryService) GetLatestByTicket(ctx context.Context, ticketID string) (*domain.TicketHistory, error) {
	entries, err := s.GetHistoryByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[len(entries)-1], nil
}

// CountByTicket returns the number of audit entries for one ticket.
func (s *HistoryService) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	entries, err := s.GetHistoryByTicket(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// GenerateActivityReport aggregates one ticket's full history into a
// summary. It is a pure function of the chronological entry list; a ticket
// with no history yields an empty report, not an error.
func (s *HistoryService) GenerateActivityReport(ctx context.Context, ticketID string) (*domain.ActivityReport, error) {
	entries, err := s.GetHistoryByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	report := &domain.ActivityReport{
		TotalChanges:  len(entries),
		StatusChanges: entries,
		UniqueUsers:   []string{},
	}
	if len(entries) > 0 {
		report.FirstChange = &entries[0]
		report.LastChange = &entries[len(entries)-1]
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.ChangedBy]; ok {
			continue
		}
		seen[entry.ChangedBy] = struct{}{}
		report.UniqueUsers = append(report.UniqueUsers, entry.ChangedBy)
	}
	return report, nil
}
