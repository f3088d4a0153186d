package dto

import "time"

// DepartmentResponse is the public department view.
type DepartmentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewerResponse is a department reviewer entry.
type ReviewerResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	DepartmentID int64  `json:"departmentId"`
	IsDefault    bool   `json:"isDefault"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
}

// AdminDepartmentResponse is the enriched admin console view.
type AdminDepartmentResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	IsActive  bool               `json:"isActive"`
	Assignees []AssigneeResponse `json:"assignees"`
	Reviewers []ReviewerResponse `json:"reviewers"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// AdminDepartmentListResponse is a paginated admin listing.
type AdminDepartmentListResponse struct {
	Departments      []AdminDepartmentResponse `json:"departments"`
	TotalDepartments int64                     `json:"totalDepartments"`
	TotalPages       int64                     `json:"totalPages"`
	Page             int                       `json:"page"`
	PerPage          int                       `json:"perPage"`
}

// CreateDepartmentRequest payload for the admin console.
type CreateDepartmentRequest struct {
	Name              string  `json:"name"`
	AssigneeIDs       []int64 `json:"assigneeIds"`
	DefaultAssigneeID int64   `json:"defaultAssigneeId"`
	ReviewerID        int64   `json:"reviewerId"`
}

// UpdateDepartmentRequest payload; nil fields are left untouched.
type UpdateDepartmentRequest struct {
	Name              *string `json:"name"`
	AssigneeIDs       []int64 `json:"assigneeIds"`
	DefaultAssigneeID *int64  `json:"defaultAssigneeId"`
	ReviewerID        *int64  `json:"reviewerId"`
}

// UserRefResponse is a slim user entry for staffing pickers.
type UserRefResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
