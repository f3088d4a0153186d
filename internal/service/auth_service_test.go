package service

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/pkg/util"
)

type sessionStoreMock struct {
	revoked      map[string]time.Duration
	savedStates  map[string]bool
	consumeCalls int
}

func newSessionStoreMock() *sessionStoreMock {
	return &sessionStoreMock{revoked: map[string]time.Duration{}, savedStates: map[string]bool{}}
}

func (s *sessionStoreMock) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.revoked[jti] = ttl
	return nil
}

func (s *sessionStoreMock) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, nil
}

func (s *sessionStoreMock) SaveOAuthState(_ context.Context, state string) error {
	s.savedStates[state] = true
	return nil
}

func (s *sessionStoreMock) ConsumeOAuthState(_ context.Context, state string) (bool, error) {
	s.consumeCalls++
	if s.savedStates[state] {
		delete(s.savedStates, state)
		return true, nil
	}
	return false, nil
}

func testTokenManager() *auth.TokenManager {
	key := sha256.Sum256([]byte("test-crypto-secret"))
	return auth.NewTokenManager("test-jwt-secret", key[:], 24)
}

func activeUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           3,
		Name:         "Casey",
		Email:        "casey@example.com",
		PasswordHash: &hash,
		RoleID:       1,
		Role:         &domain.Role{ID: 1, Name: domain.RoleEmployee},
		IsActive:     true,
	}
}

func newAuthService(users *userRepoMock, assignees *assigneeRepoMock, sessions auth.SessionStore) *AuthService {
	return NewAuthService(users, assignees, testTokenManager(), sessions, nil, zap.NewNop())
}

func TestAuthService_LoginWithEmail_Success(t *testing.T) {
	user := activeUser(t)
	users := &userRepoMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			require.Equal(t, "casey@example.com", email)
			return user, nil
		},
	}
	svc := newAuthService(users, &assigneeRepoMock{}, newSessionStoreMock())

	result, err := svc.LoginWithEmail(context.Background(), "casey@example.com", "correct-horse")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleEmployee, result.Role)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestAuthService_LoginWithEmail_WrongPassword(t *testing.T) {
	user := activeUser(t)
	users := &userRepoMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	}
	svc := newAuthService(users, &assigneeRepoMock{}, newSessionStoreMock())

	_, err := svc.LoginWithEmail(context.Background(), "casey@example.com", "wrong")

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeUnauthorized))
}

func TestAuthService_LoginWithEmail_UnknownEmailSameError(t *testing.T) {
	svc := newAuthService(&userRepoMock{}, &assigneeRepoMock{}, newSessionStoreMock())

	_, err := svc.LoginWithEmail(context.Background(), "nobody@example.com", "anything")

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeUnauthorized))
}

func TestAuthService_LoginWithEmail_GoogleOnlyAccount(t *testing.T) {
	user := activeUser(t)
	user.PasswordHash = nil
	users := &userRepoMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	}
	svc := newAuthService(users, &assigneeRepoMock{}, newSessionStoreMock())

	_, err := svc.LoginWithEmail(context.Background(), "casey@example.com", "anything")

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))
}

func TestAuthService_LoginWithEmail_DeactivatedAccount(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	users := &userRepoMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	}
	svc := newAuthService(users, &assigneeRepoMock{}, newSessionStoreMock())

	_, err := svc.LoginWithEmail(context.Background(), "casey@example.com", "correct-horse")

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeForbidden))
}

func TestAuthService_AssigneeTokenCarriesAssigneeID(t *testing.T) {
	user := activeUser(t)
	user.Role = &domain.Role{ID: 3, Name: domain.RoleAssignee}
	users := &userRepoMock{
		getByEmailFn: func(context.Context, string) (*domain.User, error) { return user, nil },
	}
	assignees := &assigneeRepoMock{
		findByUserFn: func(_ context.Context, userID int64) (*domain.Assignee, error) {
			return &domain.Assignee{ID: 42, UserID: userID, DepartmentID: 7}, nil
		},
	}
	svc := newAuthService(users, assignees, newSessionStoreMock())

	result, err := svc.LoginWithEmail(context.Background(), "casey@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := testTokenManager().Parse(result.Token)
	require.NoError(t, err)
	require.NotNil(t, claims.AssigneeID)
	assert.Equal(t, int64(42), *claims.AssigneeID)
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	sessions := newSessionStoreMock()
	svc := newAuthService(&userRepoMock{}, &assigneeRepoMock{}, sessions)

	err := svc.Logout(context.Background(), "token-id-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	revoked, err := sessions.IsRevoked(context.Background(), "token-id-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Logout_ExpiredTokenSkipsRevocation(t *testing.T) {
	sessions := newSessionStoreMock()
	svc := newAuthService(&userRepoMock{}, &assigneeRepoMock{}, sessions)

	err := svc.Logout(context.Background(), "token-id-2", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, sessions.revoked)
}

func TestAuthService_GoogleLoginURL_Unconfigured(t *testing.T) {
	svc := newAuthService(&userRepoMock{}, &assigneeRepoMock{}, newSessionStoreMock())

	_, err := svc.GoogleLoginURL(context.Background())

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))
}
