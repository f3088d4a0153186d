package domain

import "time"

// User models an employee account. PasswordHash is nil for accounts that can
// only sign in through Google.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash *string
	RoleID       int64
	Role         *Role
	DepartmentID *int64
	EmployeeCode *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the subset of user fields embedded in responses that join on a
// user row.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
