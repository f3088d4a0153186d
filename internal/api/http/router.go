package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/api/http/handlers"
	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Departments    *handlers.DepartmentsHandler
	Admin          *handlers.AdminHandler
	Comments       *handlers.CommentsHandler
	CommonIssues   *handlers.CommonIssuesHandler
	Profile        *handlers.ProfileHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/google", cfg.Auth.GoogleLogin)
	authGroup.Get("/google/callback", cfg.Auth.GoogleCallback)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	// department and catalog listings are open so the ticket form can be
	// rendered before login
	api.Get("/departments", cfg.Departments.List)
	api.Get("/departments/:id", cfg.Departments.Get)
	api.Get("/common-issues", cfg.CommonIssues.List)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/assignees",
		auth.RequirePermission(domain.PermAssigneeView), cfg.Tickets.ListDepartmentAssignees)
	tickets.Post("/",
		auth.RequirePermission(domain.PermTicketCreate), cfg.Tickets.Create)
	tickets.Get("/",
		auth.RequirePermission(domain.PermTicketView), cfg.Tickets.List)
	tickets.Get("/:id",
		auth.RequirePermission(domain.PermTicketView), cfg.Tickets.Get)
	tickets.Patch("/:id",
		auth.RequirePermission(domain.PermTicketUpdate), cfg.Tickets.Update)
	tickets.Delete("/:id",
		auth.RequirePermission(domain.PermTicketUpdate), cfg.Tickets.Delete)
	tickets.Patch("/:id/status",
		auth.RequirePermission(domain.PermTicketStatusChange), cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/priority",
		auth.RequirePermission(domain.PermTicketPriorityChange), cfg.Tickets.UpdatePriority)
	tickets.Patch("/:id/assignee",
		auth.RequirePermission(domain.PermTicketReassign), cfg.Tickets.Reassign)
	tickets.Post("/:id/comments",
		auth.RequirePermission(domain.PermChatCreate), cfg.Comments.Create)
	tickets.Get("/:id/comments",
		auth.RequirePermission(domain.PermChatView), cfg.Comments.List)

	comments := api.Group("/comments", cfg.AuthMiddleware.Handle)
	comments.Patch("/:id",
		auth.RequirePermission(domain.PermChatCreate), cfg.Comments.Update)
	comments.Delete("/:id",
		auth.RequirePermission(domain.PermChatCreate), cfg.Comments.Delete)

	profile := api.Group("/profile", cfg.AuthMiddleware.Handle)
	profile.Get("/",
		auth.RequirePermission(domain.PermProfileView), cfg.Profile.Get)
	profile.Patch("/",
		auth.RequirePermission(domain.PermProfileUpdate), cfg.Profile.Update)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle,
		auth.RequirePermission(domain.PermAdminView))
	admin.Get("/departments", cfg.Admin.ListDepartments)
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Patch("/departments/:id", cfg.Admin.UpdateDepartment)
	admin.Delete("/departments/:id", cfg.Admin.DeleteDepartment)
	admin.Patch("/departments/:id/activation", cfg.Admin.ToggleDepartmentActivation)
	admin.Get("/assignees", cfg.Admin.ListAssigneeCandidates)
	admin.Get("/reviewers", cfg.Admin.ListReviewerCandidates)
	admin.Post("/common-issues", cfg.CommonIssues.Create)
}
