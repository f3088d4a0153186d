package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/dto"
	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/internal/service"
	"github.com/gtix/helpdesk/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.DepartmentID == 0 || strings.TrimSpace(req.Title) == "" {
		return util.NewValidationError("departmentId and title required", nil)
	}

	ticket, err := h.service.Create(c.Context(), principal, service.CreateTicketInput{
		DepartmentID: req.DepartmentID,
		AssetType:    req.AssetType,
		AssetID:      req.AssetID,
		IssueType:    req.IssueType,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Priority:     req.Priority,
		Attachments:  req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	result, err := h.service.List(c.Context(), principal, parseTicketQuery(c))
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(result.Tickets))
	for i := range result.Tickets {
		items = append(items, ticketResponse(&result.Tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets:      items,
		TotalTickets: result.TotalTickets,
		TotalPages:   result.TotalPages,
		Page:         result.Page,
		PerPage:      result.PerPage,
	}})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetByID(c.Context(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Update(c.Context(), principal, id, repository.TicketPatch{
		DepartmentID: req.DepartmentID,
		AssetType:    req.AssetType,
		AssetID:      req.AssetID,
		IssueType:    req.IssueType,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		Attachments:  req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.Context(), principal, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdatePriority PATCH /tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdatePriority(c.Context(), principal, id, req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Reassign PATCH /tickets/:id/assignee.
func (h *TicketsHandler) Reassign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == 0 {
		return util.NewValidationError("assigneeId required", nil)
	}
	ticket, err := h.service.Reassign(c.Context(), principal, id, req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ListDepartmentAssignees GET /tickets/assignees.
func (h *TicketsHandler) ListDepartmentAssignees(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	assignees, err := h.service.ListDepartmentAssignees(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.AssigneeResponse, 0, len(assignees))
	for i := range assignees {
		items = append(items, assigneeResponse(&assignees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.ListTicketsInput {
	input := service.ListTicketsInput{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("perPage", 10),
		SortAsc: strings.EqualFold(c.Query("sort"), "asc"),
	}
	if id, err := strconv.ParseInt(c.Query("userId"), 10, 64); err == nil && id > 0 {
		input.UserID = &id
	}
	if id, err := strconv.ParseInt(c.Query("assigneeId"), 10, 64); err == nil && id > 0 {
		input.AssigneeID = &id
	}
	for _, raw := range splitCSV(c.Query("departmentIds")) {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			input.DepartmentIDs = append(input.DepartmentIDs, id)
		}
	}
	for _, raw := range splitCSV(c.Query("status")) {
		input.Statuses = append(input.Statuses, domain.TicketStatus(strings.ToUpper(raw)))
	}
	for _, raw := range splitCSV(c.Query("priority")) {
		input.Priorities = append(input.Priorities, domain.TicketPriority(strings.ToUpper(raw)))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		input.TitleSearch = &search
	}
	if from := parseTimeQuery(c.Query("createdFrom")); from != nil {
		input.CreatedFrom = from
	}
	if to := parseTimeQuery(c.Query("createdTo")); to != nil {
		input.CreatedTo = to
	}
	return input
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id < 1 {
		return 0, util.NewValidationError("invalid id", map[string]any{param: c.Params(param)})
	}
	return id, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseTimeQuery(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             t.ID,
		TicketNumber:   t.TicketNumber,
		UserID:         t.UserID,
		UserName:       t.UserName,
		DepartmentID:   t.DepartmentID,
		DepartmentName: t.DepartmentName,
		AssigneeID:     t.AssigneeID,
		AssigneeName:   t.AssigneeName,
		AssetType:      t.AssetType,
		AssetID:        t.AssetID,
		IssueType:      t.IssueType,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		Attachments:    t.Attachments,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func assigneeResponse(a *domain.Assignee) dto.AssigneeResponse {
	resp := dto.AssigneeResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		DepartmentID: a.DepartmentID,
		IsDefault:    a.IsDefault,
	}
	if a.User != nil {
		resp.Name = a.User.Name
		resp.Email = a.User.Email
	}
	return resp
}
