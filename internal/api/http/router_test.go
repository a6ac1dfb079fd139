package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/centraldesk/helpdesk-service/internal/api/dto"
	"github.com/centraldesk/helpdesk-service/internal/api/http/handlers"
	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/internal/events"
	"github.com/centraldesk/helpdesk-service/internal/observability"
	"github.com/centraldesk/helpdesk-service/internal/repository"
	"github.com/centraldesk/helpdesk-service/internal/service"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

type memTicketRepo struct {
	tickets []domain.Ticket
	nextID  int
}

func (m *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	m.nextID++
	ticket.ID = fmt.Sprintf("tck-%d", m.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	m.tickets = append(m.tickets, *ticket)
	return nil
}

func (m *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for i := range m.tickets {
		if m.tickets[i].ID == id {
			ticket := m.tickets[i]
			return &ticket, nil
		}
	}
	return nil, apperr.NotFound("ticket")
}

func (m *memTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	for i := range m.tickets {
		if m.tickets[i].ID == id {
			m.tickets[i].Status = status
			ticket := m.tickets[i]
			return &ticket, nil
		}
	}
	return nil, apperr.NotFound("ticket")
}

func (m *memTicketRepo) List(_ context.Context, filter repository.TicketFilter, limit, offset int) ([]domain.Ticket, int, error) {
	var matched []domain.Ticket
	for _, ticket := range m.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		matched = append(matched, ticket)
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

type memHistoryRepo struct {
	entries []domain.TicketHistory
	nextID  int
}

func (m *memHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	m.nextID++
	entry.ID = fmt.Sprintf("hist-%d", m.nextID)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memHistoryRepo) GetByID(_ context.Context, id string) (*domain.TicketHistory, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			entry := m.entries[i]
			return &entry, nil
		}
	}
	return nil, apperr.NotFound("history entry")
}

func (m *memHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	return m.filter(func(e domain.TicketHistory) bool { return e.TicketID == ticketID }, true), nil
}

func (m *memHistoryRepo) ListByActor(_ context.Context, userID string) ([]domain.TicketHistory, error) {
	return m.filter(func(e domain.TicketHistory) bool { return e.ChangedBy == userID }, false), nil
}

func (m *memHistoryRepo) ListByStatus(_ context.Context, status domain.TicketStatus) ([]domain.TicketHistory, error) {
	return m.filter(func(e domain.TicketHistory) bool { return e.Status == status }, false), nil
}

func (m *memHistoryRepo) ListByDateRange(_ context.Context, start, end time.Time) ([]domain.TicketHistory, error) {
	return m.filter(func(e domain.TicketHistory) bool {
		return !e.ChangedAt.Before(start) && !e.ChangedAt.After(end)
	}, false), nil
}

func (m *memHistoryRepo) filter(keep func(domain.TicketHistory) bool, ascending bool) []domain.TicketHistory {
	var result []domain.TicketHistory
	for _, entry := range m.entries {
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

type memUserRepo struct {
	users  []domain.User
	nextID int
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("usr-%d", m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users = append(m.users, *user)
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = *user
			return nil
		}
	}
	return apperr.NotFound("user")
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("user")
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	return append([]domain.User{}, m.users...), nil
}

type memInteractionRepo struct {
	interactions []domain.Interaction
	nextID       int
}

func (m *memInteractionRepo) Create(_ context.Context, interaction *domain.Interaction) error {
	m.nextID++
	interaction.ID = fmt.Sprintf("int-%d", m.nextID)
	m.interactions = append(m.interactions, *interaction)
	return nil
}

func (m *memInteractionRepo) Update(_ context.Context, interaction *domain.Interaction) error {
	for i := range m.interactions {
		if m.interactions[i].ID == interaction.ID {
			m.interactions[i] = *interaction
			return nil
		}
	}
	return apperr.NotFound("interaction")
}

func (m *memInteractionRepo) Delete(_ context.Context, id string) error {
	for i := range m.interactions {
		if m.interactions[i].ID == id {
			m.interactions = append(m.interactions[:i], m.interactions[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("interaction")
}

func (m *memInteractionRepo) GetByID(_ context.Context, id string) (*domain.Interaction, error) {
	for i := range m.interactions {
		if m.interactions[i].ID == id {
			interaction := m.interactions[i]
			return &interaction, nil
		}
	}
	return nil, apperr.NotFound("interaction")
}

func (m *memInteractionRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Interaction, error) {
	var result []domain.Interaction
	for _, interaction := range m.interactions {
		if interaction.TicketID == ticketID {
			result = append(result, interaction)
		}
	}
	return result, nil
}

func (m *memInteractionRepo) ListByUser(_ context.Context, userID string) ([]domain.Interaction, error) {
	var result []domain.Interaction
	for _, interaction := range m.interactions {
		if interaction.UserID == userID {
			result = append(result, interaction)
		}
	}
	return result, nil
}

func (m *memInteractionRepo) CountByTicket(_ context.Context, ticketID string) (int, error) {
	count := 0
	for _, interaction := range m.interactions {
		if interaction.TicketID == ticketID {
			count++
		}
	}
	return count, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()

	dispatcher := events.NewAsyncDispatcher(16, logger)
	t.Cleanup(dispatcher.Close)

	historyService := service.NewHistoryService(&memHistoryRepo{})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: &memTicketRepo{},
		History:    historyService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:       handlers.NewHealthHandler("helpdesk-service", "test", nil, nil),
		Tickets:      handlers.NewTicketsHandler(ticketService),
		History:      handlers.NewHistoryHandler(historyService),
		Users:        handlers.NewUsersHandler(service.NewUserService(&memUserRepo{})),
		Interactions: handlers.NewInteractionsHandler(service.NewInteractionService(&memInteractionRepo{})),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope dto.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, resp.Body.Close())
	return resp, envelope
}

func TestCreateTicketEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, envelope := doJSON(t, app, http.MethodPost, "/api/tickets", fiber.Map{
		"user_id": "usr-1",
		"message": "Printer broken",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "open", data["status"])
	assert.Equal(t, "normal", data["priority"])
	assert.NotEmpty(t, data["id"])
}

func TestCreateTicketEndpointRejectsMissingMessage(t *testing.T) {
	app := newTestApp(t)

	resp, envelope := doJSON(t, app, http.MethodPost, "/api/tickets", fiber.Map{
		"user_id": "usr-1",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "message is required", envelope.Message)
}

func TestGetTicketEndpointNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, envelope := doJSON(t, app, http.MethodGet, "/api/tickets/missing", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "ticket not found", envelope.Message)
}

func TestUpdateStatusEndpointWritesAuditTrail(t *testing.T) {
	app := newTestApp(t)

	_, created := doJSON(t, app, http.MethodPost, "/api/tickets", fiber.Map{
		"user_id": "usr-1",
		"message": "Printer broken",
	})
	ticketID := created.Data.(map[string]any)["id"].(string)

	resp, envelope := doJSON(t, app, http.MethodPatch, "/api/tickets/"+ticketID+"/status", fiber.Map{
		"status":     "in_progress",
		"changed_by": "usr-2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.Equal(t, "in_progress", envelope.Data.(map[string]any)["status"])

	resp, envelope = doJSON(t, app, http.MethodGet, "/api/ticket-history/ticket/"+ticketID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entries, ok := envelope.Data.([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "in_progress", entry["status"])
	assert.Equal(t, "usr-2", entry["changed_by"])
	assert.Equal(t, "Status alterado para: in_progress", entry["notes"])
}

func TestUpdateStatusEndpointRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(t)

	_, created := doJSON(t, app, http.MethodPost, "/api/tickets", fiber.Map{
		"user_id": "usr-1",
		"message": "Printer broken",
	})
	ticketID := created.Data.(map[string]any)["id"].(string)

	resp, envelope := doJSON(t, app, http.MethodPatch, "/api/tickets/"+ticketID+"/status", fiber.Map{
		"status": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestListTicketsEndpointPagination(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 12; i++ {
		doJSON(t, app, http.MethodPost, "/api/tickets", fiber.Map{
			"user_id": "usr-1",
			"message": fmt.Sprintf("ticket %d", i),
		})
	}

	resp, envelope := doJSON(t, app, http.MethodGet, "/api/tickets?page=1&limit=10", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := envelope.Data.(map[string]any)
	assert.Len(t, data["tickets"].([]any), 10)
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(12), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
}

func TestDateRangeEndpointValidation(t *testing.T) {
	app := newTestApp(t)

	resp, envelope := doJSON(t, app, http.MethodGet, "/api/ticket-history/date-range?start_date=not-a-date&end_date=2024-06-01T00:00:00Z", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestCreateUserEndpointConflict(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"name":  "Ana Lima",
		"email": "ana@example.com",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"name":  "Outra Ana",
		"email": "ana@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "email already registered", envelope.Message)
}

func TestLivenessEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
