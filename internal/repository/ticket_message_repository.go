package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// MessageUpdate describes a partial message update. CompletedAt follows
// IsDone: setting the flag stamps it, clearing the flag nulls it.
type MessageUpdate struct {
	Content     *string
	IsDone      *bool
	DueDate     *time.Time
	Observation *string
}

// TicketMessageRepository encapsulates message persistence.
type TicketMessageRepository interface {
	Create(ctx context.Context, message *domain.TicketMessage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
	GetByID(ctx context.Context, id string) (*domain.TicketMessage, error)
	Update(ctx context.Context, id string, update MessageUpdate) (*domain.TicketMessage, error)
}

type ticketMessageRepository struct {
	pool *pgxpool.Pool
}

// NewTicketMessageRepository instantiates the repository.
func NewTicketMessageRepository(pool *pgxpool.Pool) TicketMessageRepository {
	return &ticketMessageRepository{pool: pool}
}

const messageColumns = `id, ticket_id, author_user_id, is_internal, content, is_done,
               completed_at, due_date, observation, created_at`

func (r *ticketMessageRepository) Create(ctx context.Context, message *domain.TicketMessage) error {
	const query = `
        INSERT INTO ticket_messages (ticket_id, author_user_id, is_internal, content, due_date, observation)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.TicketID,
		message.AuthorUserID,
		message.IsInternal,
		message.Content,
		message.DueDate,
		message.Observation,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	const query = `SELECT ` + messageColumns + `
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var message domain.TicketMessage
		if err := scanMessage(rows, &message); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}

func (r *ticketMessageRepository) GetByID(ctx context.Context, id string) (*domain.TicketMessage, error) {
	const query = `SELECT ` + messageColumns + ` FROM ticket_messages WHERE id=$1`

	var message domain.TicketMessage
	if err := scanMessage(r.pool.QueryRow(ctx, query, id), &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *ticketMessageRepository) Update(ctx context.Context, id string, update MessageUpdate) (*domain.TicketMessage, error) {
	sets := []string{}
	args := []any{}

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.Content != nil {
		set("content", *update.Content)
	}
	if update.IsDone != nil {
		set("is_done", *update.IsDone)
		if *update.IsDone {
			sets = append(sets, "completed_at=NOW()")
		} else {
			sets = append(sets, "completed_at=NULL")
		}
	}
	if update.DueDate != nil {
		set("due_date", *update.DueDate)
	}
	if update.Observation != nil {
		set("observation", *update.Observation)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE ticket_messages SET %s WHERE id=$%d RETURNING `+messageColumns,
		strings.Join(sets, ", "), len(args))

	var message domain.TicketMessage
	if err := scanMessage(r.pool.QueryRow(ctx, query, args...), &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func scanMessage(row pgx.Row, message *domain.TicketMessage) error {
	return row.Scan(
		&message.ID,
		&message.TicketID,
		&message.AuthorUserID,
		&message.IsInternal,
		&message.Content,
		&message.IsDone,
		&message.CompletedAt,
		&message.DueDate,
		&message.Observation,
		&message.CreatedAt,
	)
}
