package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/dto"
	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/service"
	"github.com/gtix/helpdesk/pkg/util"
)

// AdminHandler exposes the admin console's department management endpoints.
type AdminHandler struct {
	departments *service.DepartmentService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(departmentService *service.DepartmentService) *AdminHandler {
	return &AdminHandler{departments: departmentService}
}

// ListDepartments GET /admin/departments.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	page, err := h.departments.ListAdmin(c.Context(), service.ListAdminDepartmentsInput{
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		SortDesc: strings.EqualFold(c.Query("sort"), "desc"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("perPage", 10),
	})
	if err != nil {
		return err
	}

	items := make([]dto.AdminDepartmentResponse, 0, len(page.Departments))
	for i := range page.Departments {
		items = append(items, adminDepartmentResponse(&page.Departments[i]))
	}
	return c.JSON(fiber.Map{"data": dto.AdminDepartmentListResponse{
		Departments:      items,
		TotalDepartments: page.TotalDepartments,
		TotalPages:       page.TotalPages,
		Page:             page.Page,
		PerPage:          page.PerPage,
	}})
}

// CreateDepartment POST /admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	dept, err := h.departments.Create(c.Context(), principal, service.CreateDepartmentInput{
		Name:              req.Name,
		AssigneeUserIDs:   req.AssigneeIDs,
		DefaultAssigneeID: req.DefaultAssigneeID,
		ReviewerUserID:    req.ReviewerID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": adminDepartmentResponse(dept)})
}

// UpdateDepartment PATCH /admin/departments/:id.
func (h *AdminHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	dept, err := h.departments.Update(c.Context(), id, service.UpdateDepartmentInput{
		Name:              req.Name,
		AssigneeUserIDs:   req.AssigneeIDs,
		DefaultAssigneeID: req.DefaultAssigneeID,
		ReviewerUserID:    req.ReviewerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminDepartmentResponse(dept)})
}

// DeleteDepartment DELETE /admin/departments/:id.
func (h *AdminHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.departments.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ToggleDepartmentActivation PATCH /admin/departments/:id/activation.
func (h *AdminHandler) ToggleDepartmentActivation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	active, err := h.departments.ToggleActivation(c.Context(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"isActive": active}})
}

// ListAssigneeCandidates GET /admin/assignees.
func (h *AdminHandler) ListAssigneeCandidates(c *fiber.Ctx) error {
	users, err := h.departments.ListAssigneeCandidates(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userRefResponses(users)})
}

// ListReviewerCandidates GET /admin/reviewers.
func (h *AdminHandler) ListReviewerCandidates(c *fiber.Ctx) error {
	users, err := h.departments.ListReviewerCandidates(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userRefResponses(users)})
}

func adminDepartmentResponse(d *service.AdminDepartment) dto.AdminDepartmentResponse {
	assignees := make([]dto.AssigneeResponse, 0, len(d.Assignees))
	for i := range d.Assignees {
		assignees = append(assignees, assigneeResponse(&d.Assignees[i]))
	}
	reviewers := make([]dto.ReviewerResponse, 0, len(d.Reviewers))
	for i := range d.Reviewers {
		reviewers = append(reviewers, reviewerResponse(&d.Reviewers[i]))
	}
	return dto.AdminDepartmentResponse{
		ID:        d.Department.ID,
		Name:      d.Department.Name,
		IsActive:  d.IsActive,
		Assignees: assignees,
		Reviewers: reviewers,
		CreatedAt: d.Department.CreatedAt,
		UpdatedAt: d.Department.UpdatedAt,
	}
}

func reviewerResponse(r *domain.Reviewer) dto.ReviewerResponse {
	resp := dto.ReviewerResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		DepartmentID: r.DepartmentID,
		IsDefault:    r.IsDefault,
	}
	if r.User != nil {
		resp.Name = r.User.Name
		resp.Email = r.User.Email
	}
	return resp
}

func userRefResponses(users []domain.UserRef) []dto.UserRefResponse {
	items := make([]dto.UserRefResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.UserRefResponse{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return items
}
