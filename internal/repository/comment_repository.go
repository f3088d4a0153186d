package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// CommentRepository manages ticket comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error)
	Update(ctx context.Context, id int64, body string) error
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, body)
        VALUES ($1, $2, $3)
        RETURNING id, is_edited, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.Body,
	).Scan(&comment.ID, &comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, c.body, c.is_edited, c.created_at, c.updated_at,
               u.id, u.name, u.email
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.id=$1`

	var comment domain.Comment
	var ref domain.UserRef
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.UserID,
		&comment.Body,
		&comment.IsEdited,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&ref.ID,
		&ref.Name,
		&ref.Email,
	); err != nil {
		return nil, err
	}
	comment.User = &ref
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, c.body, c.is_edited, c.created_at, c.updated_at,
               u.id, u.name, u.email
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.ticket_id=$1
        ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		var ref domain.UserRef
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.UserID,
			&comment.Body,
			&comment.IsEdited,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&ref.ID,
			&ref.Name,
			&ref.Email,
		); err != nil {
			return nil, err
		}
		comment.User = &ref
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Update(ctx context.Context, id int64, body string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE comments SET body=$1, is_edited=TRUE, updated_at=NOW() WHERE id=$2`,
		body, id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
