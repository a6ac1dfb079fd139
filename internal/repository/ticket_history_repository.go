package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// TicketHistoryRepository stores audit entries. Entries are append-only:
// there is deliberately no update or delete.
type TicketHistoryRepository interface {
	Create(ctx context.Context, entry *domain.TicketHistory) error
	GetByID(ctx context.Context, id string) (*domain.TicketHistory, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
	ListByActor(ctx context.Context, userID string) ([]domain.TicketHistory, error)
	ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.TicketHistory, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

const historyColumns = `id, ticket_id, status, changed_by, changed_at, notes`

func (r *ticketHistoryRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, status, changed_by, changed_at, notes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.Status,
		entry.ChangedBy,
		entry.ChangedAt,
		entry.Notes,
	).Scan(&entry.ID)
}

func (r *ticketHistoryRepository) GetByID(ctx context.Context, id string) (*domain.TicketHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_history WHERE id=$1`, historyColumns)
	var entry domain.TicketHistory
	if err := scanHistory(r.pool.QueryRow(ctx, query, id), &entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("history entry")
		}
		return nil, err
	}
	return &entry, nil
}

// ListByTicket returns the canonical chronological view, oldest first.
func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_history WHERE ticket_id=$1 ORDER BY changed_at ASC`, historyColumns)
	return r.list(ctx, query, ticketID)
}

// ListByActor returns an activity feed for one user, newest first.
func (r *ticketHistoryRepository) ListByActor(ctx context.Context, userID string) ([]domain.TicketHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_history WHERE changed_by=$1 ORDER BY changed_at DESC`, historyColumns)
	return r.list(ctx, query, userID)
}

// ListByStatus returns all entries recording the given status, newest first.
func (r *ticketHistoryRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.TicketHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_history WHERE status=$1 ORDER BY changed_at DESC`, historyColumns)
	return r.list(ctx, query, status)
}

// ListByDateRange returns entries with changed_at in [start, end], newest first.
func (r *ticketHistoryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.TicketHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_history WHERE changed_at >= $1 AND changed_at <= $2 ORDER BY changed_at DESC`, historyColumns)
	return r.list(ctx, query, start, end)
}

func (r *ticketHistoryRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketHistory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistory
	for rows.Next() {
		var entry domain.TicketHistory
		if err := scanHistory(rows, &entry); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanHistory(row pgx.Row, entry *domain.TicketHistory) error {
	return row.Scan(
		&entry.ID,
		&entry.TicketID,
		&entry.Status,
		&entry.ChangedBy,
		&entry.ChangedAt,
		&entry.Notes,
	)
}
