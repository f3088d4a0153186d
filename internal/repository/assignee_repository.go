package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// AssigneeRepository manages a department's resolver pool. Set replacement is
// transactional so a department can never be observed with an empty pool
// mid-update.
type AssigneeRepository interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Assignee, error)
	GetDefaultByDepartment(ctx context.Context, departmentID int64) (*domain.Assignee, error)
	GetByID(ctx context.Context, id int64) (*domain.Assignee, error)
	// FindByUser returns the user's assignee record, or pgx.ErrNoRows if the
	// user is not an assignee anywhere.
	FindByUser(ctx context.Context, userID int64) (*domain.Assignee, error)
	// Replace swaps the full assignee set for a department in one
	// transaction, flagging exactly the entry matching defaultUserID.
	Replace(ctx context.Context, departmentID int64, userIDs []int64, defaultUserID int64) error
}

type assigneeRepository struct {
	pool *pgxpool.Pool
}

// NewAssigneeRepository builds the repository.
func NewAssigneeRepository(pool *pgxpool.Pool) AssigneeRepository {
	return &assigneeRepository{pool: pool}
}

func (r *assigneeRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Assignee, error) {
	const query = `
        SELECT a.id, a.user_id, a.department_id, a.is_default, u.id, u.name, u.email
        FROM assignees a
        JOIN users u ON u.id = a.user_id
        WHERE a.department_id=$1
        ORDER BY a.id ASC`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignee
	for rows.Next() {
		var a domain.Assignee
		var ref domain.UserRef
		if err := rows.Scan(&a.ID, &a.UserID, &a.DepartmentID, &a.IsDefault, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		a.User = &ref
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *assigneeRepository) GetDefaultByDepartment(ctx context.Context, departmentID int64) (*domain.Assignee, error) {
	const query = `
        SELECT a.id, a.user_id, a.department_id, a.is_default, u.id, u.name, u.email
        FROM assignees a
        JOIN users u ON u.id = a.user_id
        WHERE a.department_id=$1 AND a.is_default = TRUE
        LIMIT 1`

	var a domain.Assignee
	var ref domain.UserRef
	if err := r.pool.QueryRow(ctx, query, departmentID).Scan(
		&a.ID, &a.UserID, &a.DepartmentID, &a.IsDefault, &ref.ID, &ref.Name, &ref.Email,
	); err != nil {
		return nil, err
	}
	a.User = &ref
	return &a, nil
}

func (r *assigneeRepository) GetByID(ctx context.Context, id int64) (*domain.Assignee, error) {
	const query = `
        SELECT a.id, a.user_id, a.department_id, a.is_default, u.id, u.name, u.email
        FROM assignees a
        JOIN users u ON u.id = a.user_id
        WHERE a.id=$1`

	var a domain.Assignee
	var ref domain.UserRef
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.DepartmentID, &a.IsDefault, &ref.ID, &ref.Name, &ref.Email,
	); err != nil {
		return nil, err
	}
	a.User = &ref
	return &a, nil
}

func (r *assigneeRepository) FindByUser(ctx context.Context, userID int64) (*domain.Assignee, error) {
	var a domain.Assignee
	err := r.pool.QueryRow(ctx,
		`SELECT id, department_id, user_id, is_default FROM assignees WHERE user_id=$1 ORDER BY id ASC LIMIT 1`,
		userID,
	).Scan(&a.ID, &a.DepartmentID, &a.UserID, &a.IsDefault)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assigneeRepository) Replace(ctx context.Context, departmentID int64, userIDs []int64, defaultUserID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM assignees WHERE department_id=$1`, departmentID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, uid := range userIDs {
		batch.Queue(
			`INSERT INTO assignees (user_id, department_id, is_default) VALUES ($1, $2, $3)`,
			uid, departmentID, uid == defaultUserID,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range userIDs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
