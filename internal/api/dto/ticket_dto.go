package dto

import (
	"time"

	"github.com/gtix/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	DepartmentID int64                 `json:"departmentId"`
	AssetType    string                `json:"assetType"`
	AssetID      string                `json:"assetId"`
	IssueType    string                `json:"issueType"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
	Attachments  []string              `json:"attachments"`
}

// UpdateTicketRequest payload; nil fields are left untouched.
type UpdateTicketRequest struct {
	DepartmentID *int64                 `json:"departmentId"`
	AssetType    *string                `json:"assetType"`
	AssetID      *string                `json:"assetId"`
	IssueType    *string                `json:"issueType"`
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	Status       *domain.TicketStatus   `json:"status"`
	Priority     *domain.TicketPriority `json:"priority"`
	Attachments  []string               `json:"attachments"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// ReassignRequest payload.
type ReassignRequest struct {
	AssigneeID int64 `json:"assigneeId"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID             int64                 `json:"id"`
	TicketNumber   string                `json:"ticketNumber"`
	UserID         int64                 `json:"userId"`
	UserName       string                `json:"userName,omitempty"`
	DepartmentID   int64                 `json:"departmentId"`
	DepartmentName string                `json:"departmentName,omitempty"`
	AssigneeID     *int64                `json:"assigneeId,omitempty"`
	AssigneeName   string                `json:"assigneeName,omitempty"`
	AssetType      string                `json:"assetType,omitempty"`
	AssetID        string                `json:"assetId,omitempty"`
	IssueType      string                `json:"issueType,omitempty"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Attachments    []string              `json:"attachments,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// TicketListResponse is a paginated ticket listing.
type TicketListResponse struct {
	Tickets      []TicketResponse `json:"tickets"`
	TotalTickets int64            `json:"totalTickets"`
	TotalPages   int64            `json:"totalPages"`
	Page         int              `json:"page"`
	PerPage      int              `json:"perPage"`
}

// AssigneeResponse is an assignee pool entry.
type AssigneeResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	DepartmentID int64  `json:"departmentId"`
	IsDefault    bool   `json:"isDefault"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
}
