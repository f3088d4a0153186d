package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// ReviewerRepository manages department reviewers. The default flag lives on
// the reviewer row itself.
type ReviewerRepository interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Reviewer, error)
	// SetDefault replaces the department's reviewer rows with a single
	// default row for userID, in one transaction.
	SetDefault(ctx context.Context, departmentID, userID int64) error
}

type reviewerRepository struct {
	pool *pgxpool.Pool
}

// NewReviewerRepository builds the repository.
func NewReviewerRepository(pool *pgxpool.Pool) ReviewerRepository {
	return &reviewerRepository{pool: pool}
}

func (r *reviewerRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Reviewer, error) {
	const query = `
        SELECT rv.id, rv.user_id, rv.department_id, rv.is_default, u.id, u.name, u.email
        FROM reviewers rv
        JOIN users u ON u.id = rv.user_id
        WHERE rv.department_id=$1
        ORDER BY rv.id ASC`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reviewer
	for rows.Next() {
		var rev domain.Reviewer
		var ref domain.UserRef
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.DepartmentID, &rev.IsDefault, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		rev.User = &ref
		result = append(result, rev)
	}
	return result, rows.Err()
}

func (r *reviewerRepository) SetDefault(ctx context.Context, departmentID, userID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM reviewers WHERE department_id=$1`, departmentID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO reviewers (user_id, department_id, is_default) VALUES ($1, $2, TRUE)`,
		userID, departmentID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
