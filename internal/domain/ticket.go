package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Transitions are
// deliberately unrestricted: any authorized caller may set any status.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "INPROGRESS"
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPending, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. TicketNumber carries the
// human-readable `TKT-0001` identifier issued from the shared counter.
type Ticket struct {
	ID           int64
	TicketNumber string
	UserID       int64
	DepartmentID int64
	AssigneeID   *int64
	AssetType    string
	AssetID      string
	IssueType    string
	Title        string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	Attachments  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined display fields, populated on reads.
	DepartmentName string
	UserName       string
	AssigneeName   string
	UserEmail      string
}
