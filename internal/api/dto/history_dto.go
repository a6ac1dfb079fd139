package dto

import (
	"time"

	"github.com/centraldesk/helpdesk-service/internal/domain"
)

// RecordChangeRequest payload for appending one audit entry.
type RecordChangeRequest struct {
	TicketID  string              `json:"ticket_id"`
	Status    domain.TicketStatus `json:"status"`
	ChangedBy string              `json:"changed_by"`
	ChangedAt *time.Time          `json:"changed_at"`
	Notes     string              `json:"notes"`
}

// RecordMultipleChangesRequest payload for batch appends.
type RecordMultipleChangesRequest struct {
	Changes []RecordChangeRequest `json:"changes"`
}

// HistoryEntryResponse is the wire form of one audit entry.
type HistoryEntryResponse struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticket_id"`
	Status    domain.TicketStatus `json:"status"`
	ChangedBy string              `json:"changed_by"`
	ChangedAt time.Time           `json:"changed_at"`
	Notes     string              `json:"notes"`
}

// ActivityReportResponse is the wire form of the derived report.
type ActivityReportResponse struct {
	TotalChanges  int                    `json:"totalChanges"`
	FirstChange   *HistoryEntryResponse  `json:"firstChange"`
	LastChange    *HistoryEntryResponse  `json:"lastChange"`
	StatusChanges []HistoryEntryResponse `json:"statusChanges"`
	UniqueUsers   []string               `json:"uniqueUsers"`
}

// NewHistoryEntryResponse maps a domain entry to its wire form.
func NewHistoryEntryResponse(entry *domain.TicketHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:        entry.ID,
		TicketID:  entry.TicketID,
		Status:    entry.Status,
		ChangedBy: entry.ChangedBy,
		ChangedAt: entry.ChangedAt,
		Notes:     entry.Notes,
	}
}

// NewHistoryEntryResponses maps a list of entries preserving order.
func NewHistoryEntryResponses(entries []domain.TicketHistory) []HistoryEntryResponse {
	result := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, NewHistoryEntryResponse(&entries[i]))
	}
	return result
}

// NewActivityReportResponse maps a domain report to its wire form.
func NewActivityReportResponse(report *domain.ActivityReport) ActivityReportResponse {
	resp := ActivityReportResponse{
		TotalChanges:  report.TotalChanges,
		StatusChanges: NewHistoryEntryResponses(report.StatusChanges),
		UniqueUsers:   report.UniqueUsers,
	}
	if report.FirstChange != nil {
		first := NewHistoryEntryResponse(report.FirstChange)
		resp.FirstChange = &first
	}
	if report.LastChange != nil {
		last := NewHistoryEntryResponse(report.LastChange)
		resp.LastChange = &last
	}
	return resp
}
