package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/repository"
	apperrors "github.com/gtix/helpdesk/pkg/util"
)

const (
	principalKey = "auth_principal"

	// CookieName carries the sealed session credential.
	CookieName = "jwt"
)

// DepartmentRef is the principal's department summary.
type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Principal is the immutable authenticated caller attached to the request
// after token validation. Permissions reflect the store at request time.
type Principal struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         domain.RoleName `json:"role"`
	Permissions  []string        `json:"permissions"`
	AssigneeID   *int64          `json:"assigneeId,omitempty"`
	EmployeeCode *string         `json:"employeeCode,omitempty"`
	Department   *DepartmentRef  `json:"department,omitempty"`

	// TokenID and TokenExpiry identify the session for revocation on logout.
	TokenID     string    `json:"-"`
	TokenExpiry time.Time `json:"-"`
}

// HasPermission checks the principal's permission set case-insensitively.
func (p *Principal) HasPermission(perm domain.Permission) bool {
	for _, have := range p.Permissions {
		if perm.Equal(have) {
			return true
		}
	}
	return false
}

// AuthMiddleware validates session cookies and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	users     repository.UserRepository
	assignees repository.AssigneeRepository
	sessions  SessionStore
}

// NewAuthMiddleware constructs middleware. sessions may be nil when Redis is
// not configured; logout revocation is then unavailable.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, assignees repository.AssigneeRepository, sessions SessionStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, assignees: assignees, sessions: sessions}
}

// Handle enforces authentication for protected routes. The claims identify
// the caller but grants are never trusted from the token: the current user,
// role and permission set are re-fetched from the store on every request.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	sealed := c.Cookies(CookieName)
	if sealed == "" {
		return apperrors.NewUnauthorized("missing session token")
	}

	claims, err := m.tokens.Parse(sealed)
	if err != nil {
		return apperrors.NewUnauthorized("invalid session token")
	}

	if m.sessions != nil {
		revoked, err := m.sessions.IsRevoked(c.Context(), claims.ID)
		if err == nil && revoked {
			return apperrors.NewUnauthorized("session revoked")
		}
	}

	user, perms, err := m.users.GetByEmailWithPermissions(c.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	principal := &Principal{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Permissions:  permissionNames(perms),
		EmployeeCode: user.EmployeeCode,
		TokenID:      claims.ID,
	}
	if user.Role != nil {
		principal.Role = user.Role.Name
	}
	if principal.Role == domain.RoleAssignee && m.assignees != nil {
		// staffing updates recreate assignee rows, so the id in the token
		// may be stale; resolve the current record instead
		rec, err := m.assignees.FindByUser(c.Context(), user.ID)
		switch {
		case err == nil:
			principal.AssigneeID = &rec.ID
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return apperrors.MapError(err)
		}
	}
	if claims.ExpiresAt != nil {
		principal.TokenExpiry = claims.ExpiresAt.Time
	}
	if user.DepartmentID != nil {
		dept, err := m.users.GetDepartmentRef(c.Context(), *user.DepartmentID)
		if err == nil && dept != nil {
			principal.Department = &DepartmentRef{ID: dept.ID, Name: dept.Name}
		}
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// RequirePermission gates a route on the caller holding at least ONE of the
// listed permissions. OR semantics let a single route serve multiple roles
// with overlapping grants.
func RequirePermission(required ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, perm := range required {
			if principal.HasPermission(perm) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("access denied")
	}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SetPrincipal attaches a principal. Exposed for handler tests.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

func permissionNames(perms []domain.Permission) []string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, strings.ToLower(string(p)))
	}
	return names
}
