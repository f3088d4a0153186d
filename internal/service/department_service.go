package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/pkg/util"
)

// fallbackManagerUserID owns lazily created activation records when the
// acting principal is unknown.
const fallbackManagerUserID = 1

// AdminDepartment is a department enriched with its staffing and activation
// state for the admin console.
type AdminDepartment struct {
	Department domain.Department
	Assignees  []domain.Assignee
	Reviewers  []domain.Reviewer
	IsActive   bool
}

// AdminDepartmentPage is a page of enriched departments.
type AdminDepartmentPage struct {
	Departments      []AdminDepartment
	TotalDepartments int64
	TotalPages       int64
	Page             int
	PerPage          int
}

// ListAdminDepartmentsInput carries admin listing parameters.
type ListAdminDepartmentsInput struct {
	Search   string
	SortBy   string
	SortDesc bool
	Page     int
	PerPage  int
}

// CreateDepartmentInput carries admin department creation fields.
type CreateDepartmentInput struct {
	Name              string
	AssigneeUserIDs   []int64
	DefaultAssigneeID int64
	ReviewerUserID    int64
}

// UpdateDepartmentInput carries an admin department edit. Nil fields are
// left untouched.
type UpdateDepartmentInput struct {
	Name              *string
	AssigneeUserIDs   []int64
	DefaultAssigneeID *int64
	ReviewerUserID    *int64
}

// DepartmentService implements department CRUD and admin staffing.
type DepartmentService struct {
	departments repository.DepartmentRepository
	assignees   repository.AssigneeRepository
	reviewers   repository.ReviewerRepository
	tickets     repository.TicketRepository
	users       repository.UserRepository
	logger      *zap.Logger
}

func NewDepartmentService(
	departments repository.DepartmentRepository,
	assignees repository.AssigneeRepository,
	reviewers repository.ReviewerRepository,
	tickets repository.TicketRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		assignees:   assignees,
		reviewers:   reviewers,
		tickets:     tickets,
		users:       users,
		logger:      logger,
	}
}

// List returns departments for pickers, optionally filtered by search term.
func (s *DepartmentService) List(ctx context.Context, search string) ([]domain.Department, error) {
	return s.departments.List(ctx, search)
}

// GetByID fetches one department.
func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	return s.departments.GetByID(ctx, id)
}

// ListAdmin returns a page of departments enriched with assignees, reviewers
// and activation state.
func (s *DepartmentService) ListAdmin(ctx context.Context, input ListAdminDepartmentsInput) (*AdminDepartmentPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	total, err := s.departments.Count(ctx, input.Search)
	if err != nil {
		return nil, err
	}
	depts, err := s.departments.ListPaged(ctx, repository.DepartmentPage{
		Search:   input.Search,
		SortBy:   input.SortBy,
		SortDesc: input.SortDesc,
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	})
	if err != nil {
		return nil, err
	}

	enriched := make([]AdminDepartment, 0, len(depts))
	for _, dept := range depts {
		item, err := s.enrich(ctx, dept)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, *item)
	}

	totalPages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		totalPages++
	}
	return &AdminDepartmentPage{
		Departments:      enriched,
		TotalDepartments: total,
		TotalPages:       totalPages,
		Page:             page,
		PerPage:          perPage,
	}, nil
}

// Create makes a department with its initial assignee pool and reviewer. The
// default assignee must be part of the pool.
func (s *DepartmentService) Create(ctx context.Context, principal *auth.Principal, input CreateDepartmentInput) (*AdminDepartment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, util.NewValidationError("Department name is required", nil)
	}
	if len(input.AssigneeUserIDs) == 0 {
		return nil, util.NewValidationError("At least one assignee is required", nil)
	}
	if !containsID(input.AssigneeUserIDs, input.DefaultAssigneeID) {
		return nil, util.NewValidationError("Default assignee must be one of the selected assignees",
			map[string]any{"defaultAssigneeId": input.DefaultAssigneeID})
	}
	if existing, err := s.departments.FindByNameInsensitive(ctx, name, 0); err == nil && existing != nil {
		return nil, util.NewConflict("A department with this name already exists",
			map[string]any{"name": name})
	}

	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	if err := s.assignees.Replace(ctx, dept.ID, input.AssigneeUserIDs, input.DefaultAssigneeID); err != nil {
		return nil, err
	}
	if input.ReviewerUserID != 0 {
		if err := s.reviewers.SetDefault(ctx, dept.ID, input.ReviewerUserID); err != nil {
			return nil, err
		}
	}
	if err := s.departments.CreateManager(ctx, &domain.DepartmentManager{
		DepartmentID: dept.ID,
		UserID:       managerUserID(principal),
		IsActive:     true,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("department created", zap.Int64("department_id", dept.ID), zap.String("name", dept.Name))
	return s.enrich(ctx, *dept)
}

// Update applies an admin edit. Each field is optional and applied
// independently; renames are rejected when another department already holds
// the name, compared case-insensitively.
func (s *DepartmentService) Update(ctx context.Context, id int64, input UpdateDepartmentInput) (*AdminDepartment, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, util.NewValidationError("Department name cannot be empty", nil)
		}
		if existing, err := s.departments.FindByNameInsensitive(ctx, name, id); err == nil && existing != nil {
			return nil, util.NewConflict("A department with this name already exists",
				map[string]any{"name": name})
		}
		if err := s.departments.Rename(ctx, id, name); err != nil {
			return nil, err
		}
		dept.Name = name
	}

	if len(input.AssigneeUserIDs) > 0 {
		defaultID := int64(0)
		if input.DefaultAssigneeID != nil {
			defaultID = *input.DefaultAssigneeID
		}
		if defaultID == 0 {
			defaultID = input.AssigneeUserIDs[0]
		}
		if !containsID(input.AssigneeUserIDs, defaultID) {
			return nil, util.NewValidationError("Default assignee must be one of the selected assignees",
				map[string]any{"defaultAssigneeId": defaultID})
		}
		if err := s.assignees.Replace(ctx, id, input.AssigneeUserIDs, defaultID); err != nil {
			return nil, err
		}
	} else if input.DefaultAssigneeID != nil {
		current, err := s.assignees.ListByDepartment(ctx, id)
		if err != nil {
			return nil, err
		}
		userIDs := make([]int64, 0, len(current))
		for _, a := range current {
			userIDs = append(userIDs, a.UserID)
		}
		if !containsID(userIDs, *input.DefaultAssigneeID) {
			return nil, util.NewValidationError("Default assignee must be one of the department's assignees",
				map[string]any{"defaultAssigneeId": *input.DefaultAssigneeID})
		}
		if err := s.assignees.Replace(ctx, id, userIDs, *input.DefaultAssigneeID); err != nil {
			return nil, err
		}
	}

	if input.ReviewerUserID != nil {
		if err := s.reviewers.SetDefault(ctx, id, *input.ReviewerUserID); err != nil {
			return nil, err
		}
	}

	return s.enrich(ctx, *dept)
}

// Delete removes a department that has no tickets.
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.tickets.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.NewConflict("Department has tickets and cannot be deleted",
			map[string]any{"departmentId": id, "ticketCount": count})
	}
	return s.departments.Delete(ctx, id)
}

// ToggleActivation flips the department's activation state. A department
// that already has tickets cannot be toggled; the activation record is
// created lazily on first toggle.
func (s *DepartmentService) ToggleActivation(ctx context.Context, principal *auth.Principal, id int64) (bool, error) {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return false, err
	}
	count, err := s.tickets.CountByDepartment(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, util.NewConflict("Department has tickets and cannot be deactivated",
			map[string]any{"departmentId": id, "ticketCount": count})
	}
	mgr, err := s.departments.GetManager(ctx, id)
	if err != nil {
		if !util.IsCode(util.MapError(err), util.CodeNotFound) {
			return false, err
		}
		// no record means active; first toggle deactivates
		mgr = &domain.DepartmentManager{
			DepartmentID: id,
			UserID:       managerUserID(principal),
			IsActive:     false,
		}
		if err := s.departments.CreateManager(ctx, mgr); err != nil {
			return false, err
		}
		return false, nil
	}
	next := !mgr.IsActive
	if err := s.departments.SetManagerActive(ctx, mgr.ID, next); err != nil {
		return false, err
	}
	return next, nil
}

// ListAssigneeCandidates returns active users holding the ASSIGNEE role,
// for the admin staffing pickers.
func (s *DepartmentService) ListAssigneeCandidates(ctx context.Context) ([]domain.UserRef, error) {
	return s.users.ListActiveByRole(ctx, domain.RoleAssignee)
}

// ListReviewerCandidates returns active users holding the REVIEWER role.
func (s *DepartmentService) ListReviewerCandidates(ctx context.Context) ([]domain.UserRef, error) {
	return s.users.ListActiveByRole(ctx, domain.RoleReviewer)
}

func (s *DepartmentService) enrich(ctx context.Context, dept domain.Department) (*AdminDepartment, error) {
	assignees, err := s.assignees.ListByDepartment(ctx, dept.ID)
	if err != nil {
		return nil, err
	}
	reviewers, err := s.reviewers.ListByDepartment(ctx, dept.ID)
	if err != nil {
		return nil, err
	}
	active := true
	if mgr, err := s.departments.GetManager(ctx, dept.ID); err == nil {
		active = mgr.IsActive
	}
	return &AdminDepartment{
		Department: dept,
		Assignees:  assignees,
		Reviewers:  reviewers,
		IsActive:   active,
	}, nil
}

func managerUserID(principal *auth.Principal) int64 {
	if principal != nil && principal.ID != 0 {
		return principal.ID
	}
	return fallbackManagerUserID
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
