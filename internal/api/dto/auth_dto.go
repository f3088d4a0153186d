package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the authenticated user as returned to clients.
type UserResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Role         string              `json:"role"`
	EmployeeCode *string             `json:"employeeCode,omitempty"`
	Department   *DepartmentResponse `json:"department,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// LoginResponse payload. The session token itself travels in an httpOnly
// cookie, never the body.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// GoogleLoginResponse carries the consent-screen redirect target.
type GoogleLoginResponse struct {
	URL string `json:"url"`
}
