package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/dto"
	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/service"
	"github.com/gtix/helpdesk/pkg/util"
)

// AuthHandler exposes login, logout and session introspection endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	frontendURL string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: authService, frontendURL: frontendURL}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.LoginWithEmail(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, result.Token, result.ExpiresAt)

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User:      loginUserResponse(result),
		ExpiresAt: result.ExpiresAt,
	}})
}

// GoogleLogin handles GET /auth/google.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	url, err := h.auth.GoogleLoginURL(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.GoogleLoginResponse{URL: url}})
}

// GoogleCallback handles GET /auth/google/callback. On success the session
// cookie is set and the browser is redirected back to the frontend.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		return util.NewValidationError("state and code required", nil)
	}

	result, err := h.auth.GoogleCallback(c.Context(), state, code)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, result.Token, result.ExpiresAt)

	if h.frontendURL != "" {
		return c.Redirect(h.frontendURL, fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User:      loginUserResponse(result),
		ExpiresAt: result.ExpiresAt,
	}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if ok {
		if err := h.auth.Logout(c.Context(), principal.TokenID, principal.TokenExpiry); err != nil {
			return err
		}
	}
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	resp := dto.UserResponse{
		ID:           principal.ID,
		Name:         principal.Name,
		Email:        principal.Email,
		Role:         string(principal.Role),
		EmployeeCode: principal.EmployeeCode,
	}
	if principal.Department != nil {
		resp.Department = &dto.DepartmentResponse{ID: principal.Department.ID, Name: principal.Department.Name}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user":        resp,
		"permissions": principal.Permissions,
	}})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func loginUserResponse(result *service.LoginResult) dto.UserResponse {
	return dto.UserResponse{
		ID:           result.User.ID,
		Name:         result.User.Name,
		Email:        result.User.Email,
		Role:         string(result.Role),
		EmployeeCode: result.User.EmployeeCode,
		CreatedAt:    result.User.CreatedAt,
	}
}
