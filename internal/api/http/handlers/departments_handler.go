package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/dto"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/service"
)

// DepartmentsHandler exposes the public department listing used by ticket
// creation pickers.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.service.List(c.Context(), c.Query("search"))
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		items = append(items, departmentResponse(&depts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	dept, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

func departmentResponse(d *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt}
}
