package dto

import "time"

// CreateCommonIssueRequest payload.
type CreateCommonIssueRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DepartmentID int64  `json:"departmentId"`
}

// CommonIssueResponse is a self-help catalog entry.
type CommonIssueResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DepartmentID int64     `json:"departmentId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UpdateProfileRequest payload; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	EmployeeCode *string `json:"employeeCode"`
	DepartmentID *int64  `json:"departmentId"`
}
