package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centraldesk/helpdesk-service/internal/domain"
	"github.com/centraldesk/helpdesk-service/pkg/apperr"
)

// InteractionRepository manages ticket thread messages.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) error
	Update(ctx context.Context, interaction *domain.Interaction) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Interaction, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Interaction, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Interaction, error)
	CountByTicket(ctx context.Context, ticketID string) (int, error)
}

type interactionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository builds repository.
func NewInteractionRepository(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{pool: pool}
}

const interactionColumns = `id, user_id, ticket_id, message, sent_by, timestamp, channel`

func (r *interactionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (user_id, ticket_id, message, sent_by, timestamp, channel)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		interaction.UserID,
		interaction.TicketID,
		interaction.Message,
		interaction.SentBy,
		interaction.Timestamp,
		interaction.Channel,
	).Scan(&interaction.ID)
}

func (r *interactionRepository) Update(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        UPDATE interactions SET message=$1, sent_by=$2, channel=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		interaction.Message,
		interaction.SentBy,
		interaction.Channel,
		interaction.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("interaction")
	}
	return nil
}

func (r *interactionRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM interactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("interaction")
	}
	return nil
}

func (r *interactionRepository) GetByID(ctx context.Context, id string) (*domain.Interaction, error) {
	var interaction domain.Interaction
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE id=$1`
	if err := scanInteraction(r.pool.QueryRow(ctx, query, id), &interaction); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("interaction")
		}
		return nil, err
	}
	return &interaction, nil
}

// ListByTicket returns the conversation in chronological order.
func (r *interactionRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE ticket_id=$1 ORDER BY timestamp ASC`
	return r.list(ctx, query, ticketID)
}

// ListByUser returns a user's messages, newest first.
func (r *interactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE user_id=$1 ORDER BY timestamp DESC`
	return r.list(ctx, query, userID)
}

func (r *interactionRepository) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM interactions WHERE ticket_id=$1`, ticketID).Scan(&count)
	return count, err
}

func (r *interactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Interaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Interaction
	for rows.Next() {
		var interaction domain.Interaction
		if err := scanInteraction(rows, &interaction); err != nil {
			return nil, err
		}
		result = append(result, interaction)
	}
	return result, rows.Err()
}

func scanInteraction(row pgx.Row, interaction *domain.Interaction) error {
	return row.Scan(
		&interaction.ID,
		&interaction.UserID,
		&interaction.TicketID,
		&interaction.Message,
		&interaction.SentBy,
		&interaction.Timestamp,
		&interaction.Channel,
	)
}
