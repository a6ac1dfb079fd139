package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

type fakeHistoryRepo struct {
	entries   []domain.TicketHistory
	nextID    int
	createErr error
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	entry.ID = fmt.Sprintf("hist-%d", f.nextID)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) GetByID(_ context.Context, id string) (*domain.TicketHistory, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, apperr.NotFound("history entry")
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	return f.filter(func(e domain.TicketHistory) bool { return e.TicketID == ticketID }, true), nil
}

func (f *fakeHistoryRepo) ListByActor(_ context.Context, userID string) ([]domain.TicketHistory, error) {
	return f.filter(func(e domain.TicketHistory) bool { return e.ChangedBy == userID }, false), nil
}

func (f *fakeHistoryRepo) ListByStatus(_ context.Context, status domain.TicketStatus) ([]domain.TicketHistory, error) {
	return f.filter(func(e domain.TicketHistory) bool { return e.Status == status }, false), nil
}

func (f *fakeHistoryRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.TicketHistory, error) {
	return f.filter(func(e domain.TicketHistory) bool {
		return !e.ChangedAt.Before(start) && !e.ChangedAt.After(end)
	}, false), nil
}

func (f *fakeHistoryRepo) filter(keep func(domain.TicketHistory) bool, ascending bool) []domain.TicketHistory {
	var result []domain.TicketHistory
	for _, entry := range f.entries {
		if keep(entry) {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if ascending {
			return result[i].ChangedAt.Before(result[j].ChangedAt)
		}
		return result[i].ChangedAt.After(result[j].ChangedAt)
	})
	return result
}

func newHistoryServiceForTest(repo *fakeHistoryRepo) *HistoryService {
	svc := NewHistoryService(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func ts(hour int) *time.Time {
	t := time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestRecordChangeDefaults(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := newHistoryServiceForTest(repo)

	entry, err := svc.RecordChange(context.Background(), RecordChangeInput{
		TicketID:  "tck-1",
		Status:    domain.TicketStatusInProgress,
		ChangedBy: "usr-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Status alterado para: in_progress", entry.Notes)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), entry.ChangedAt)
	assert.NotEmpty(t, entry.ID)
}

func TestRecordChangeExplicitValues(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := newHistoryServiceForTest(repo)

	entry, err := svc.RecordChange(context.Background(), RecordChangeInput{
		TicketID:  "tck-1",
		Status:    domain.TicketStatusResolved,
		ChangedBy: "usr-1",
		ChangedAt: ts(9),
		Notes:     "fixed by restart",
	})
	require.NoError(t, err)

	assert.Equal(t, "fixed by restart", entry.Notes)
	assert.Equal(t, *ts(9), entry.ChangedAt)
}

func TestRecordChangeValidation(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})

	cases := []RecordChangeInput{
		{Status: domain.TicketStatusOpen, ChangedBy: "usr-1"},
		{TicketID: "tck-1", ChangedBy: "usr-1"},
		{TicketID: "tck-1", Status: domain.TicketStatusOpen},
	}
	for _, input := range cases {
		_, err := svc.RecordChange(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
}

func TestRecordMultipleChangesAll(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := newHistoryServiceForTest(repo)

	results, err := svc.RecordMultipleChanges(context.Background(), []RecordChangeInput{
		{TicketID: "tck-1", Status: domain.TicketStatusInProgress, ChangedBy: "usr-1", ChangedAt: ts(9)},
		{TicketID: "tck-1", Status: domain.TicketStatusResolved, ChangedBy: "usr-2", ChangedAt: ts(10)},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.NotNil(t, result.Entry)
	}
	assert.Len(t, repo.entries, 2)
}

func TestRecordMultipleChangesStopsAtFirstFailure(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := newHistoryServiceForTest(repo)

	results, err := svc.RecordMultipleChanges(context.Background(), []RecordChangeInput{
		{TicketID: "tck-1", Status: domain.TicketStatusInProgress, ChangedBy: "usr-1"},
		{TicketID: "tck-1", Status: domain.TicketStatusResolved}, // missing actor
		{TicketID: "tck-1", Status: domain.TicketStatusClosed, ChangedBy: "usr-1"},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	// e1 persisted, e2 failed, e3 never attempted.
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Len(t, repo.entries, 1)
}

func TestRecordMultipleChangesEmptyList(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})

	_, err := svc.RecordMultipleChanges(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func seedHistory(t *testing.T, svc *HistoryService) {
	t.Helper()
	inputs := []RecordChangeInput{
		{TicketID: "tck-1", Status: domain.TicketStatusOpen, ChangedBy: "usr-1", ChangedAt: ts(8)},
		{TicketID: "tck-1", Status: domain.TicketStatusInProgress, ChangedBy: "usr-2", ChangedAt: ts(9)},
		{TicketID: "tck-1", Status: domain.TicketStatusResolved, ChangedBy: "usr-1", ChangedAt: ts(10)},
		{TicketID: "tck-2", Status: domain.TicketStatusOpen, ChangedBy: "usr-3", ChangedAt: ts(11)},
	}
	for _, input := range inputs {
		_, err := svc.RecordChange(context.Background(), input)
		require.NoError(t, err)
	}
}

func TestGetHistoryByTicketAscending(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})
	seedHistory(t, svc)

	entries, err := svc.GetHistoryByTicket(context.Background(), "tck-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].ChangedAt.Before(entries[i-1].ChangedAt))
	}
	assert.Equal(t, domain.TicketStatusOpen, entries[0].Status)
	assert.Equal(t, domain.TicketStatusResolved, entries[2].Status)
}

func TestGetHistoryByActorDescending(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})
	seedHistory(t, svc)

	entries, err := svc.GetHistoryByActor(context.Background(), "usr-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TicketStatusResolved, entries[0].Status)
	assert.Equal(t, domain.TicketStatusOpen, entries[1].Status)
}

func TestGetLatestByTicket(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})
	seedHistory(t, svc)

	latest, err := svc.GetLatestByTicket(context.Background(), "tck-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, domain.TicketStatusResolved, latest.Status)

	// A ticket with no history yields nil, not an error.
	latest, err = svc.GetLatestByTicket(context.Background(), "tck-missing")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestCountByTicket(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})
	seedHistory(t, svc)

	count, err := svc.CountByTicket(context.Background(), "tck-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = svc.CountByTicket(context.Background(), "tck-missing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetHistoryByDateRange(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})
	seedHistory(t, svc)

	entries, err := svc.GetHistoryByDateRange(context.Background(),
		"2024-06-01T09:00:00Z", "2024-06-01T10:00:00Z")
	require.NoError(t, err)
	// Inclusive bounds, newest first.
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TicketStatusResolved, entries[0].Status)
	assert.Equal(t, domain.TicketStatusInProgress, entries[1].Status)
}

func TestGetHistoryByDateRangeValidation(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})

	cases := []struct{ start, end string }{
		{"", "2024-06-01T10:00:00Z"},
		{"2024-06-01T10:00:00Z", ""},
		{"not-a-date", "2024-06-01T10:00:00Z"},
		{"2024-06-01T10:00:00Z", "not-a-date"},
		{"2024-06-02T00:00:00Z", "2024-06-01T00:00:00Z"},
	}
	for _, tc := range cases {
		_, err := svc.GetHistoryByDateRange(context.Background(), tc.start, tc.end)
		require.Error(t, err, "start=%q end=%q", tc.start, tc.end)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
}

func TestGetHistoryByIDNotFound(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})

	_, err := svc.GetHistoryByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGenerateActivityReport(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})
	seedHistory(t, svc)

	report, err := svc.GenerateActivityReport(context.Background(), "tck-1")
	require.NoError(t, err)

	entries, err := svc.GetHistoryByTicket(context.Background(), "tck-1")
	require.NoError(t, err)

	assert.Equal(t, len(entries), report.TotalChanges)
	assert.Equal(t, entries[0], *report.FirstChange)
	assert.Equal(t, entries[len(entries)-1], *report.LastChange)
	assert.Equal(t, entries, report.StatusChanges)
	assert.ElementsMatch(t, []string{"usr-1", "usr-2"}, report.UniqueUsers)
}

func TestGenerateActivityReportEmptyHistory(t *testing.T) {
	svc := newHistoryServiceForTest(&fakeHistoryRepo{})

	report, err := svc.GenerateActivityReport(context.Background(), "tck-empty")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalChanges)
	assert.Nil(t, report.FirstChange)
	assert.Nil(t, report.LastChange)
	assert.Empty(t, report.StatusChanges)
	assert.Empty(t, report.UniqueUsers)
}

func TestRecordChangeRepositoryFailure(t *testing.T) {
	repo := &fakeHistoryRepo{createErr: errors.New("connection refused")}
	svc := newHistoryServiceForTest(repo)

	_, err := svc.RecordChange(context.Background(), RecordChangeInput{
		TicketID:  "tck-1",
		Status:    domain.TicketStatusOpen,
		ChangedBy: "usr-1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
