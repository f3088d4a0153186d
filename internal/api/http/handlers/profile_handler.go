package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/dto"
	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/service"
	"github.com/gtix/helpdesk/pkg/util"
)

// ProfileHandler exposes self-service profile endpoints.
type ProfileHandler struct {
	service *service.UserService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{service: userService}
}

// Get GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	user, err := h.service.GetProfile(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(user)})
}

// Update PATCH /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateProfile(c.Context(), principal, service.UpdateProfileInput{
		Name:         req.Name,
		EmployeeCode: req.EmployeeCode,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(user)})
}

func profileResponse(user *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		EmployeeCode: user.EmployeeCode,
		CreatedAt:    user.CreatedAt,
	}
	if user.Role != nil {
		resp.Role = string(user.Role.Name)
	}
	return resp
}
