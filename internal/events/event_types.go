package events

import (
	"time"

	"github.com/gtix/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries what the notification needs to reach the
// resolved assignee.
type TicketCreatedPayload struct {
	TicketNumber   string              `json:"ticket_number"`
	Title          string              `json:"title"`
	Status         domain.TicketStatus `json:"status"`
	DepartmentName string              `json:"department_name"`
	AssigneeName   string              `json:"assignee_name"`
	AssigneeEmail  string              `json:"assignee_email"`
}

// TicketStatusChangedPayload carries what the notification needs to reach the
// ticket creator.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	Title        string              `json:"title"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	CreatorName  string              `json:"creator_name"`
	CreatorEmail string              `json:"creator_email"`
}
