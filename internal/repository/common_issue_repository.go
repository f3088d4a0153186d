package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// CommonIssueRepository manages the static common-issue catalog.
type CommonIssueRepository interface {
	Create(ctx context.Context, issue *domain.CommonIssue) error
	// List returns catalog entries, optionally filtered to a department.
	List(ctx context.Context, departmentID *int64) ([]domain.CommonIssue, error)
}

type commonIssueRepository struct {
	pool *pgxpool.Pool
}

// NewCommonIssueRepository builds the repository.
func NewCommonIssueRepository(pool *pgxpool.Pool) CommonIssueRepository {
	return &commonIssueRepository{pool: pool}
}

func (r *commonIssueRepository) Create(ctx context.Context, issue *domain.CommonIssue) error {
	const query = `
        INSERT INTO common_issues (title, description, department_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.DepartmentID,
	).Scan(&issue.ID, &issue.CreatedAt)
}

func (r *commonIssueRepository) List(ctx context.Context, departmentID *int64) ([]domain.CommonIssue, error) {
	query := `SELECT id, title, description, department_id, created_at FROM common_issues`
	args := []any{}
	if departmentID != nil {
		query += ` WHERE department_id=$1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CommonIssue
	for rows.Next() {
		var issue domain.CommonIssue
		if err := rows.Scan(&issue.ID, &issue.Title, &issue.Description, &issue.DepartmentID, &issue.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
