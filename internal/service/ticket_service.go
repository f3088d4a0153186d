package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/events"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/pkg/util"
)

// CreateTicketInput carries validated ticket creation fields.
type CreateTicketInput struct {
	DepartmentID int64
	AssetType    string
	AssetID      string
	IssueType    string
	Title        string
	Description  string
	Priority     domain.TicketPriority
	Attachments  []string
}

// ListTicketsInput carries listing parameters before role scoping.
type ListTicketsInput struct {
	UserID        *int64
	AssigneeID    *int64
	DepartmentIDs []int64
	Statuses      []domain.TicketStatus
	Priorities    []domain.TicketPriority
	TitleSearch   *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortAsc       bool
	Page          int
	PerPage       int
}

// TicketListResult is a page of tickets with pagination totals.
type TicketListResult struct {
	Tickets      []domain.Ticket
	TotalTickets int64
	TotalPages   int64
	Page         int
	PerPage      int
}

// TicketService implements ticket lifecycle operations.
type TicketService struct {
	tickets     repository.TicketRepository
	departments repository.DepartmentRepository
	assignees   repository.AssigneeRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

func NewTicketService(
	tickets repository.TicketRepository,
	departments repository.DepartmentRepository,
	assignees repository.AssigneeRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		tickets:     tickets,
		departments: departments,
		assignees:   assignees,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Create opens a ticket in the target department, resolving the department's
// default assignee and issuing the next ticket number.
func (s *TicketService) Create(ctx context.Context, principal *auth.Principal, input CreateTicketInput) (*domain.Ticket, error) {
	if input.Title == "" {
		return nil, util.NewValidationError("Title is required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, util.NewValidationError("Invalid priority", map[string]any{"priority": input.Priority})
	}

	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if util.IsCode(util.MapError(err), util.CodeNotFound) {
			return nil, util.NewNotFound("Department", map[string]any{"departmentId": input.DepartmentID})
		}
		return nil, err
	}

	defaultAssignee, err := s.assignees.GetDefaultByDepartment(ctx, dept.ID)
	if err != nil {
		if util.IsCode(util.MapError(err), util.CodeNotFound) {
			return nil, util.NewInvalidState("Department cannot accept tickets: no default assignee",
				map[string]any{"departmentId": dept.ID})
		}
		return nil, err
	}

	seq, err := s.tickets.NextTicketNumber(ctx)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	ticket := &domain.Ticket{
		TicketNumber: fmt.Sprintf("TKT-%04d", seq),
		UserID:       principal.ID,
		DepartmentID: dept.ID,
		AssigneeID:   &defaultAssignee.ID,
		AssetType:    input.AssetType,
		AssetID:      input.AssetID,
		IssueType:    input.IssueType,
		Title:        input.Title,
		Description:  input.Description,
		Status:       domain.TicketStatusOpen,
		Priority:     input.Priority,
		Attachments:  input.Attachments,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		ActorID:   principal.ID,
		Timestamp: time.Now(),
		Payload: events.TicketCreatedPayload{
			TicketNumber:   ticket.TicketNumber,
			Title:          ticket.Title,
			Status:         ticket.Status,
			DepartmentName: dept.Name,
			AssigneeName:   assigneeName(defaultAssignee),
			AssigneeEmail:  assigneeEmail(defaultAssignee),
		},
	})

	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("ticket_number", ticket.TicketNumber),
		zap.Int64("department_id", dept.ID))
	return ticket, nil
}

// List returns tickets matching the caller's filters. Admin callers always
// see the full set: user, assignee, and department filters are stripped
// server-side so a stale dashboard filter never hides tickets from an
// administrator. Every other role gets the filters it asked for.
func (s *TicketService) List(ctx context.Context, principal *auth.Principal, input ListTicketsInput) (*TicketListResult, error) {
	filter := repository.TicketFilter{
		Statuses:    input.Statuses,
		Priorities:  input.Priorities,
		TitleSearch: input.TitleSearch,
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		SortAsc:     input.SortAsc,
	}
	for _, st := range input.Statuses {
		if !domain.ValidStatus(st) {
			return nil, util.NewValidationError("Invalid status filter", map[string]any{"status": st})
		}
	}
	for _, pr := range input.Priorities {
		if !domain.ValidPriority(pr) {
			return nil, util.NewValidationError("Invalid priority filter", map[string]any{"priority": pr})
		}
	}

	if principal.Role != domain.RoleAdmin {
		filter.UserID = input.UserID
		filter.AssigneeID = input.AssigneeID
		filter.DepartmentIDs = input.DepartmentIDs
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage

	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		totalPages++
	}
	return &TicketListResult{
		Tickets:      tickets,
		TotalTickets: total,
		TotalPages:   totalPages,
		Page:         page,
		PerPage:      perPage,
	}, nil
}

// GetByID fetches one ticket, enforcing the same visibility rules as List.
func (s *TicketService) GetByID(ctx context.Context, principal *auth.Principal, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(principal, ticket) {
		return nil, util.NewForbidden("You do not have access to this ticket")
	}
	return ticket, nil
}

// UpdateStatus sets any valid status. No transition graph is enforced:
// reopening a closed ticket is allowed.
func (s *TicketService) UpdateStatus(ctx context.Context, principal *auth.Principal, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(status) {
		return nil, util.NewValidationError("Invalid status", map[string]any{"status": status})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(principal, ticket) {
		return nil, util.NewForbidden("You do not have access to this ticket")
	}
	if ticket.Status == status {
		return ticket, nil
	}
	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	ticket.Status = status

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		TicketID:  ticket.ID,
		ActorID:   principal.ID,
		Timestamp: time.Now(),
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: ticket.TicketNumber,
			Title:        ticket.Title,
			NewStatus:    status,
			CreatorName:  ticket.UserName,
			CreatorEmail: ticket.UserEmail,
		},
	})
	return ticket, nil
}

// UpdatePriority sets the ticket priority.
func (s *TicketService) UpdatePriority(ctx context.Context, principal *auth.Principal, id int64, priority domain.TicketPriority) (*domain.Ticket, error) {
	if !domain.ValidPriority(priority) {
		return nil, util.NewValidationError("Invalid priority", map[string]any{"priority": priority})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(principal, ticket) {
		return nil, util.NewForbidden("You do not have access to this ticket")
	}
	if err := s.tickets.UpdatePriority(ctx, id, priority); err != nil {
		return nil, err
	}
	ticket.Priority = priority
	return ticket, nil
}

// Reassign moves the ticket to another assignee within its department.
func (s *TicketService) Reassign(ctx context.Context, principal *auth.Principal, id, assigneeID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target, err := s.assignees.GetByID(ctx, assigneeID)
	if err != nil {
		if util.IsCode(util.MapError(err), util.CodeNotFound) {
			return nil, util.NewNotFound("Assignee", map[string]any{"assigneeId": assigneeID})
		}
		return nil, err
	}
	if target.DepartmentID != ticket.DepartmentID {
		return nil, util.NewValidationError("Assignee belongs to a different department",
			map[string]any{"assigneeId": assigneeID, "departmentId": ticket.DepartmentID})
	}
	patch := repository.TicketPatch{AssigneeID: &target.ID}
	if err := s.tickets.UpdateFields(ctx, id, patch); err != nil {
		return nil, err
	}
	ticket.AssigneeID = &target.ID
	if target.User != nil {
		ticket.AssigneeName = target.User.Name
	}
	s.logger.Info("ticket reassigned",
		zap.Int64("ticket_id", id),
		zap.Int64("assignee_id", assigneeID),
		zap.Int64("actor_id", principal.ID))
	return ticket, nil
}

// Update applies a partial edit by the ticket creator or an admin.
func (s *TicketService) Update(ctx context.Context, principal *auth.Principal, id int64, patch repository.TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != principal.ID && principal.Role != domain.RoleAdmin {
		return nil, util.NewForbidden("Only the ticket creator can edit this ticket")
	}
	if patch.Status != nil && !domain.ValidStatus(*patch.Status) {
		return nil, util.NewValidationError("Invalid status", map[string]any{"status": *patch.Status})
	}
	if patch.Priority != nil && !domain.ValidPriority(*patch.Priority) {
		return nil, util.NewValidationError("Invalid priority", map[string]any{"priority": *patch.Priority})
	}
	if patch.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *patch.DepartmentID); err != nil {
			return nil, util.NewNotFound("Department", map[string]any{"departmentId": *patch.DepartmentID})
		}
	}
	if err := s.tickets.UpdateFields(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.tickets.GetByID(ctx, id)
}

// Delete removes a ticket. Creators can delete their own; admins any.
func (s *TicketService) Delete(ctx context.Context, principal *auth.Principal, id int64) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ticket.UserID != principal.ID && principal.Role != domain.RoleAdmin {
		return util.NewForbidden("Only the ticket creator can delete this ticket")
	}
	return s.tickets.Delete(ctx, id)
}

// ListDepartmentAssignees returns the assignee pool of the caller's own
// department, resolved through the caller's assignee record.
func (s *TicketService) ListDepartmentAssignees(ctx context.Context, principal *auth.Principal) ([]domain.Assignee, error) {
	var departmentID int64
	switch {
	case principal.AssigneeID != nil:
		rec, err := s.assignees.GetByID(ctx, *principal.AssigneeID)
		if err != nil {
			return nil, err
		}
		departmentID = rec.DepartmentID
	case principal.Department != nil:
		departmentID = principal.Department.ID
	default:
		return nil, util.NewForbidden("No department for this account")
	}
	return s.assignees.ListByDepartment(ctx, departmentID)
}

func (s *TicketService) canView(principal *auth.Principal, ticket *domain.Ticket) bool {
	switch principal.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAssignee:
		return principal.AssigneeID != nil && ticket.AssigneeID != nil && *ticket.AssigneeID == *principal.AssigneeID
	case domain.RoleReviewer:
		return principal.Department != nil && ticket.DepartmentID == principal.Department.ID
	default:
		return ticket.UserID == principal.ID
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func assigneeName(a *domain.Assignee) string {
	if a.User != nil {
		return a.User.Name
	}
	return ""
}

func assigneeEmail(a *domain.Assignee) string {
	if a.User != nil {
		return a.User.Email
	}
	return ""
}
