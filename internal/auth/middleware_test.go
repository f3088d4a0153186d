package auth

import (
	"context"
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/pkg/util"
)

type usersMock struct {
	user  *domain.User
	perms []domain.Permission
	dept  *domain.Department
}

func (m *usersMock) Create(context.Context, *domain.User) error { return nil }
func (m *usersMock) Update(context.Context, *domain.User) error { return nil }
func (m *usersMock) GetByID(context.Context, int64) (*domain.User, error) {
	return m.user, nil
}
func (m *usersMock) GetByEmail(context.Context, string) (*domain.User, error) {
	if m.user == nil {
		return nil, pgx.ErrNoRows
	}
	return m.user, nil
}
func (m *usersMock) GetByEmailWithPermissions(context.Context, string) (*domain.User, []domain.Permission, error) {
	if m.user == nil {
		return nil, nil, pgx.ErrNoRows
	}
	return m.user, m.perms, nil
}
func (m *usersMock) GetRoleByName(context.Context, domain.RoleName) (*domain.Role, error) {
	return nil, pgx.ErrNoRows
}
func (m *usersMock) GetDepartmentRef(context.Context, int64) (*domain.Department, error) {
	if m.dept == nil {
		return nil, pgx.ErrNoRows
	}
	return m.dept, nil
}
func (m *usersMock) FindByEmployeeCode(context.Context, string, int64) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (m *usersMock) ListActiveByRole(context.Context, domain.RoleName) ([]domain.UserRef, error) {
	return nil, nil
}

type assigneesMock struct {
	rec *domain.Assignee
}

func (m *assigneesMock) ListByDepartment(context.Context, int64) ([]domain.Assignee, error) {
	return nil, nil
}
func (m *assigneesMock) GetDefaultByDepartment(context.Context, int64) (*domain.Assignee, error) {
	return nil, pgx.ErrNoRows
}
func (m *assigneesMock) GetByID(context.Context, int64) (*domain.Assignee, error) {
	if m.rec == nil {
		return nil, pgx.ErrNoRows
	}
	return m.rec, nil
}
func (m *assigneesMock) FindByUser(context.Context, int64) (*domain.Assignee, error) {
	if m.rec == nil {
		return nil, pgx.ErrNoRows
	}
	return m.rec, nil
}
func (m *assigneesMock) Replace(context.Context, int64, []int64, int64) error { return nil }

type revocationMock struct {
	revoked map[string]bool
}

func (m *revocationMock) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.revoked[jti] = true
	return nil
}
func (m *revocationMock) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}
func (m *revocationMock) SaveOAuthState(context.Context, string) error { return nil }
func (m *revocationMock) ConsumeOAuthState(context.Context, string) (bool, error) {
	return false, nil
}

func testApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := util.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
}

func guardTestApp(principal *Principal, required ...domain.Permission) *fiber.App {
	app := testApp()
	app.Get("/guarded",
		func(c *fiber.Ctx) error {
			if principal != nil {
				SetPrincipal(c, principal)
			}
			return c.Next()
		},
		RequirePermission(required...),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	return app
}

func TestRequirePermission_NoPrincipal(t *testing.T) {
	app := guardTestApp(nil, domain.PermTicketView)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePermission_MissingPermission(t *testing.T) {
	principal := &Principal{ID: 3, Permissions: []string{"ticket:view"}}
	app := guardTestApp(principal, domain.PermTicketReassign)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequirePermission_Granted(t *testing.T) {
	principal := &Principal{ID: 3, Permissions: []string{"ticket:view"}}
	app := guardTestApp(principal, domain.PermTicketView)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_CaseInsensitive(t *testing.T) {
	principal := &Principal{ID: 3, Permissions: []string{"TICKET:VIEW"}}
	app := guardTestApp(principal, domain.PermTicketView)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_OrSemantics(t *testing.T) {
	principal := &Principal{ID: 3, Permissions: []string{"chat:view"}}
	app := guardTestApp(principal, domain.PermTicketReassign, domain.PermChatView)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func middlewareTokenManager() *TokenManager {
	key := sha256.Sum256([]byte("crypto-secret"))
	return NewTokenManager("jwt-secret", key[:], 24)
}

func protectedApp(m *AuthMiddleware) *fiber.App {
	app := testApp()
	app.Get("/protected", m.Handle, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(principal)
	})
	return app
}

func sessionRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return req
}

func TestAuthMiddleware_MissingCookie(t *testing.T) {
	m := NewAuthMiddleware(middlewareTokenManager(), &usersMock{}, &assigneesMock{}, nil)

	resp, err := protectedApp(m).Test(sessionRequest(""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(middlewareTokenManager(), &usersMock{}, &assigneesMock{}, nil)

	resp, err := protectedApp(m).Test(sessionRequest("not-a-real-token"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_PermissionsComeFromStore(t *testing.T) {
	tm := middlewareTokenManager()
	user := &domain.User{
		ID: 3, Name: "Casey", Email: "casey@example.com",
		Role: &domain.Role{ID: 1, Name: domain.RoleEmployee}, IsActive: true,
	}
	users := &usersMock{user: user, perms: []domain.Permission{domain.PermTicketView}}
	m := NewAuthMiddleware(tm, users, &assigneesMock{}, nil)

	sealed, _, err := tm.Issue(user, domain.RoleEmployee, nil)
	require.NoError(t, err)

	app := testApp()
	var seen *Principal
	app.Get("/protected", m.Handle, func(c *fiber.Ctx) error {
		seen, _ = PrincipalFromContext(c)
		return c.SendString("ok")
	})

	resp, err := app.Test(sessionRequest(sealed))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, seen)
	assert.Equal(t, []string{"ticket:view"}, seen.Permissions)
	assert.Equal(t, domain.RoleEmployee, seen.Role)
	assert.NotEmpty(t, seen.TokenID)
}

func TestAuthMiddleware_AssigneeIDResolvedFromStore(t *testing.T) {
	tm := middlewareTokenManager()
	user := &domain.User{
		ID: 9, Name: "Dana", Email: "dana@example.com",
		Role: &domain.Role{ID: 2, Name: domain.RoleAssignee},
	}
	users := &usersMock{user: user}
	assignees := &assigneesMock{rec: &domain.Assignee{ID: 57, UserID: 9, DepartmentID: 7}}
	m := NewAuthMiddleware(tm, users, assignees, nil)

	// the row held id 42 when the session was issued and has since been
	// recreated by a staffing update
	staleID := int64(42)
	sealed, _, err := tm.Issue(user, domain.RoleAssignee, &staleID)
	require.NoError(t, err)

	app := testApp()
	var seen *Principal
	app.Get("/protected", m.Handle, func(c *fiber.Ctx) error {
		seen, _ = PrincipalFromContext(c)
		return c.SendString("ok")
	})

	resp, err := app.Test(sessionRequest(sealed))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, seen)
	require.NotNil(t, seen.AssigneeID)
	assert.Equal(t, int64(57), *seen.AssigneeID)
}

func TestAuthMiddleware_UserDeletedAfterIssue(t *testing.T) {
	tm := middlewareTokenManager()
	user := &domain.User{ID: 3, Email: "casey@example.com"}
	sealed, _, err := tm.Issue(user, domain.RoleEmployee, nil)
	require.NoError(t, err)

	m := NewAuthMiddleware(tm, &usersMock{}, &assigneesMock{}, nil)
	resp, err := protectedApp(m).Test(sessionRequest(sealed))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RevokedSession(t *testing.T) {
	tm := middlewareTokenManager()
	user := &domain.User{
		ID: 3, Email: "casey@example.com",
		Role: &domain.Role{ID: 1, Name: domain.RoleEmployee},
	}
	users := &usersMock{user: user}
	sessions := &revocationMock{revoked: map[string]bool{}}
	m := NewAuthMiddleware(tm, users, &assigneesMock{}, sessions)

	sealed, _, err := tm.Issue(user, domain.RoleEmployee, nil)
	require.NoError(t, err)

	app := protectedApp(m)
	resp, err := app.Test(sessionRequest(sealed))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	claims, err := tm.Parse(sealed)
	require.NoError(t, err)
	require.NoError(t, sessions.Revoke(context.Background(), claims.ID, time.Hour))

	resp, err = app.Test(sessionRequest(sealed))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
