package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/dto"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/service"
	"github.com/gtix/helpdesk/pkg/util"
)

// CommonIssuesHandler serves the self-help catalog endpoints.
type CommonIssuesHandler struct {
	service *service.CommonIssueService
}

// NewCommonIssuesHandler constructs handler.
func NewCommonIssuesHandler(issueService *service.CommonIssueService) *CommonIssuesHandler {
	return &CommonIssuesHandler{service: issueService}
}

// List GET /common-issues.
func (h *CommonIssuesHandler) List(c *fiber.Ctx) error {
	var departmentID *int64
	if raw := c.QueryInt("departmentId", 0); raw > 0 {
		id := int64(raw)
		departmentID = &id
	}
	issues, err := h.service.List(c.Context(), departmentID)
	if err != nil {
		return err
	}
	items := make([]dto.CommonIssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, commonIssueResponse(&issues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /admin/common-issues.
func (h *CommonIssuesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCommonIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	issue, err := h.service.Create(c.Context(), req.Title, req.Description, req.DepartmentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commonIssueResponse(issue)})
}

func commonIssueResponse(issue *domain.CommonIssue) dto.CommonIssueResponse {
	return dto.CommonIssueResponse{
		ID:           issue.ID,
		Title:        issue.Title,
		Description:  issue.Description,
		DepartmentID: issue.DepartmentID,
		CreatedAt:    issue.CreatedAt,
	}
}
