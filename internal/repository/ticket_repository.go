package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	UserID        *int64
	AssigneeID    *int64
	DepartmentIDs []int64
	Statuses      []domain.TicketStatus
	Priorities    []domain.TicketPriority
	TitleSearch   *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortAsc       bool
	Limit         int
	Offset        int
}

// TicketPatch describes a partial ticket update; nil fields are untouched.
type TicketPatch struct {
	DepartmentID *int64
	AssigneeID   *int64
	AssetType    *string
	AssetID      *string
	IssueType    *string
	Title        *string
	Description  *string
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
	Attachments  []string
}

// TicketRepository encapsulates ticket persistence and the shared ticket
// number counter.
type TicketRepository interface {
	// NextTicketNumber atomically increments the counter and returns the new
	// value. Concurrent creations can never observe the same number.
	NextTicketNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int64, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	UpdatePriority(ctx context.Context, id int64, priority domain.TicketPriority) error
	UpdateFields(ctx context.Context, id int64, patch TicketPatch) error
	Delete(ctx context.Context, id int64) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) NextTicketNumber(ctx context.Context) (int64, error) {
	const query = `
        INSERT INTO ticket_counters (id, value) VALUES (1, 1)
        ON CONFLICT (id) DO UPDATE SET value = ticket_counters.value + 1
        RETURNING value`
	var value int64
	if err := r.pool.QueryRow(ctx, query).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, user_id, department_id, assignee_id, asset_type, asset_id,
                             issue_type, title, description, status, priority, attachments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.UserID,
		ticket.DepartmentID,
		ticket.AssigneeID,
		ticket.AssetType,
		ticket.AssetID,
		ticket.IssueType,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Attachments,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const ticketSelect = `
        SELECT t.id, t.ticket_number, t.user_id, t.department_id, t.assignee_id,
               t.asset_type, t.asset_id, t.issue_type, t.title, t.description,
               t.status, t.priority, t.attachments, t.created_at, t.updated_at,
               d.name, u.name, u.email, COALESCE(au.name, '')
        FROM tickets t
        JOIN departments d ON d.id = t.department_id
        JOIN users u ON u.id = t.user_id
        LEFT JOIN assignees a ON a.id = t.assignee_id
        LEFT JOIN users au ON au.id = a.user_id`

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id)
	return scanTicketRow(row)
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.UserID,
		&ticket.DepartmentID,
		&ticket.AssigneeID,
		&ticket.AssetType,
		&ticket.AssetID,
		&ticket.IssueType,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Attachments,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DepartmentName,
		&ticket.UserName,
		&ticket.UserEmail,
		&ticket.AssigneeName,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func buildTicketClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("t.user_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("t.assignee_id=$%d", len(args)))
	}
	if len(filter.DepartmentIDs) > 0 {
		placeholders := make([]string, len(filter.DepartmentIDs))
		for i, id := range filter.DepartmentIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.department_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.TitleSearch != nil && strings.TrimSpace(*filter.TitleSearch) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.TitleSearch))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(t.title) LIKE $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}

	return clauses, args
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := buildTicketClauses(filter)

	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at %s LIMIT %d OFFSET %d`,
		ticketSelect, strings.Join(clauses, " AND "), direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int64, error) {
	clauses, args := buildTicketClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets t WHERE %s`, strings.Join(clauses, " AND "))
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE department_id=$1`, departmentID).Scan(&count)
	return count, err
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	return r.exec(ctx, `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
}

func (r *ticketRepository) UpdatePriority(ctx context.Context, id int64, priority domain.TicketPriority) error {
	return r.exec(ctx, `UPDATE tickets SET priority=$1, updated_at=NOW() WHERE id=$2`, priority, id)
}

func (r *ticketRepository) UpdateFields(ctx context.Context, id int64, patch TicketPatch) error {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.DepartmentID != nil {
		add("department_id", *patch.DepartmentID)
	}
	if patch.AssigneeID != nil {
		add("assignee_id", *patch.AssigneeID)
	}
	if patch.AssetType != nil {
		add("asset_type", *patch.AssetType)
	}
	if patch.AssetID != nil {
		add("asset_id", *patch.AssetID)
	}
	if patch.IssueType != nil {
		add("issue_type", *patch.IssueType)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.Attachments != nil {
		add("attachments", patch.Attachments)
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	return r.exec(ctx, query, args...)
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
