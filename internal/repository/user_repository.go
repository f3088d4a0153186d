package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gtix/helpdesk/internal/domain"
)

// UserRepository defines persistence access for users, roles and their
// permission grants.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByEmailWithPermissions loads the user with its role and the role's
	// current permission grants flattened to a list.
	GetByEmailWithPermissions(ctx context.Context, email string) (*domain.User, []domain.Permission, error)
	GetRoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	GetDepartmentRef(ctx context.Context, id int64) (*domain.Department, error)
	// FindByEmployeeCode looks a user up by employee code, excluding the
	// given user id (for uniqueness checks on profile updates).
	FindByEmployeeCode(ctx context.Context, code string, excludeID int64) (*domain.User, error)
	// ListActiveByRole returns active users holding the named role.
	ListActiveByRole(ctx context.Context, role domain.RoleName) ([]domain.UserRef, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role_id, department_id, employee_code, is_active, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role_id, department_id, employee_code, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.DepartmentID,
		user.EmployeeCode,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, role_id=$4, department_id=$5,
            employee_code=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.DepartmentID,
		user.EmployeeCode,
		user.IsActive,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) fetchOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.DepartmentID,
		&user.EmployeeCode,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmailWithPermissions(ctx context.Context, email string) (*domain.User, []domain.Permission, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role_id, u.department_id,
               u.employee_code, u.is_active, u.created_at, u.updated_at,
               r.id, r.name
        FROM users u
        JOIN roles r ON r.id = u.role_id
        WHERE u.email=$1`

	var user domain.User
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.DepartmentID,
		&user.EmployeeCode,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&role.ID,
		&role.Name,
	); err != nil {
		return nil, nil, err
	}
	user.Role = &role

	const permQuery = `
        SELECT p.name
        FROM role_permissions rp
        JOIN permissions p ON p.id = rp.permission_id
        WHERE rp.role_id=$1`

	rows, err := r.pool.Query(ctx, permQuery, role.ID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, nil, err
		}
		perms = append(perms, domain.Permission(name))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &user, perms, nil
}

func (r *userRepository) GetRoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	if err := r.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE name=$1`, name).Scan(&role.ID, &role.Name); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) GetDepartmentRef(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM departments WHERE id=$1`, id).Scan(
		&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *userRepository) FindByEmployeeCode(ctx context.Context, code string, excludeID int64) (*domain.User, error) {
	return r.fetchTwoArgs(ctx, `SELECT `+userColumns+` FROM users WHERE employee_code=$1 AND id<>$2`, code, excludeID)
}

func (r *userRepository) fetchTwoArgs(ctx context.Context, query string, a, b any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, a, b).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.DepartmentID,
		&user.EmployeeCode,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListActiveByRole(ctx context.Context, role domain.RoleName) ([]domain.UserRef, error) {
	const query = `
        SELECT u.id, u.name, u.email
        FROM users u
        JOIN roles r ON r.id = u.role_id
        WHERE r.name=$1 AND u.is_active = TRUE
        ORDER BY u.name ASC`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserRef
	for rows.Next() {
		var ref domain.UserRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	return result, rows.Err()
}
