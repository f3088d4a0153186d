package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// DepartmentPage captures admin listing parameters.
type DepartmentPage struct {
	Search   string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// DepartmentRepository manages department persistence, including the
// activation manager records.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	// FindByNameInsensitive returns the department whose name matches
	// case-insensitively, excluding excludeID (0 to include all).
	FindByNameInsensitive(ctx context.Context, name string, excludeID int64) (*domain.Department, error)
	List(ctx context.Context, search string) ([]domain.Department, error)
	ListPaged(ctx context.Context, page DepartmentPage) ([]domain.Department, error)
	Count(ctx context.Context, search string) (int64, error)

	GetManager(ctx context.Context, departmentID int64) (*domain.DepartmentManager, error)
	CreateManager(ctx context.Context, mgr *domain.DepartmentManager) error
	SetManagerActive(ctx context.Context, id int64, active bool) error
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, dept.Name).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) Rename(ctx context.Context, id int64, name string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE departments SET name=$1, updated_at=NOW() WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM departments WHERE id=$1`, id).Scan(
		&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) FindByNameInsensitive(ctx context.Context, name string, excludeID int64) (*domain.Department, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM departments
        WHERE LOWER(name) = LOWER($1) AND id <> $2`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, name, excludeID).Scan(
		&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context, search string) ([]domain.Department, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM departments
        WHERE name ILIKE $1
        ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDepartments(rows)
}

var departmentSortFields = map[string]string{
	"id":        "id",
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *departmentRepository) ListPaged(ctx context.Context, page DepartmentPage) ([]domain.Department, error) {
	sortField, ok := departmentSortFields[page.SortBy]
	if !ok {
		sortField = "created_at"
	}
	direction := "ASC"
	if page.SortDesc {
		direction = "DESC"
	}

	limit := page.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, name, created_at, updated_at
        FROM departments
        WHERE name ILIKE $1
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, sortField, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, "%"+strings.TrimSpace(page.Search)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDepartments(rows)
}

func (r *departmentRepository) Count(ctx context.Context, search string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments WHERE name ILIKE $1`, "%"+search+"%").Scan(&count)
	return count, err
}

func scanDepartments(rows pgx.Rows) ([]domain.Department, error) {
	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) GetManager(ctx context.Context, departmentID int64) (*domain.DepartmentManager, error) {
	const query = `
        SELECT id, department_id, user_id, is_active
        FROM department_managers
        WHERE department_id=$1
        ORDER BY id ASC
        LIMIT 1`
	var mgr domain.DepartmentManager
	if err := r.pool.QueryRow(ctx, query, departmentID).Scan(
		&mgr.ID, &mgr.DepartmentID, &mgr.UserID, &mgr.IsActive,
	); err != nil {
		return nil, err
	}
	return &mgr, nil
}

func (r *departmentRepository) CreateManager(ctx context.Context, mgr *domain.DepartmentManager) error {
	const query = `
        INSERT INTO department_managers (department_id, user_id, is_active)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, mgr.DepartmentID, mgr.UserID, mgr.IsActive).Scan(&mgr.ID)
}

func (r *departmentRepository) SetManagerActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE department_managers SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
