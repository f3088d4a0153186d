package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/pkg/util"
)

// LoginResult carries the sealed session token plus the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Role      domain.RoleName
}

// AuthService implements credential and Google login flows.
type AuthService struct {
	users     repository.UserRepository
	assignees repository.AssigneeRepository
	tokens    *auth.TokenManager
	sessions  auth.SessionStore
	google    *auth.GoogleAuthenticator
	logger    *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	assignees repository.AssigneeRepository,
	tokens *auth.TokenManager,
	sessions auth.SessionStore,
	google *auth.GoogleAuthenticator,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		assignees: assignees,
		tokens:    tokens,
		sessions:  sessions,
		google:    google,
		logger:    logger,
	}
}

// LoginWithEmail verifies a password credential and issues a session token.
// Lookup misses and password mismatches return the same error so the
// response never reveals whether the account exists.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if util.IsCode(util.MapError(err), util.CodeNotFound) {
			return nil, util.NewUnauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, util.NewForbidden("Account is deactivated")
	}
	if user.PasswordHash == nil {
		return nil, util.NewValidationError("This account signs in with Google", nil)
	}
	if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
		return nil, util.NewUnauthorized("Invalid email or password")
	}
	return s.issueFor(ctx, user)
}

// GoogleLoginURL generates the consent-screen redirect with a one-time state
// nonce stored server side.
func (s *AuthService) GoogleLoginURL(ctx context.Context) (string, error) {
	if s.google == nil {
		return "", util.NewValidationError("Google login is not configured", nil)
	}
	state := uuid.NewString()
	if s.sessions != nil {
		if err := s.sessions.SaveOAuthState(ctx, state); err != nil {
			return "", util.NewInternalError(err)
		}
	}
	return s.google.AuthURL(state), nil
}

// GoogleCallback exchanges the authorization code, provisioning a new
// EMPLOYEE account on first login.
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*LoginResult, error) {
	if s.google == nil {
		return nil, util.NewValidationError("Google login is not configured", nil)
	}
	if s.sessions != nil {
		ok, err := s.sessions.ConsumeOAuthState(ctx, state)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		if !ok {
			return nil, util.NewUnauthorized("Invalid or expired login state")
		}
	}
	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !util.IsCode(util.MapError(err), util.CodeNotFound) {
			return nil, err
		}
		user, err = s.provisionGoogleUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	}
	if !user.IsActive {
		return nil, util.NewForbidden("Account is deactivated")
	}
	return s.issueFor(ctx, user)
}

// Logout revokes the session token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiry time.Time) error {
	if s.sessions == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil
	}
	return s.sessions.Revoke(ctx, tokenID, ttl)
}

func (s *AuthService) provisionGoogleUser(ctx context.Context, profile *auth.GoogleProfile) (*domain.User, error) {
	role, err := s.users.GetRoleByName(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:     profile.Name,
		Email:    profile.Email,
		RoleID:   role.ID,
		Role:     role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("provisioned user from Google login", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *AuthService) issueFor(ctx context.Context, user *domain.User) (*LoginResult, error) {
	role := s.roleName(ctx, user)

	var assigneeID *int64
	if role == domain.RoleAssignee {
		if rec, err := s.assignees.FindByUser(ctx, user.ID); err == nil {
			assigneeID = &rec.ID
		}
	}

	token, expiresAt, err := s.tokens.Issue(user, role, assigneeID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, Role: role}, nil
}

func (s *AuthService) roleName(ctx context.Context, user *domain.User) domain.RoleName {
	if user.Role != nil {
		return user.Role.Name
	}
	full, err := s.users.GetByID(ctx, user.ID)
	if err == nil && full.Role != nil {
		return full.Role.Name
	}
	return domain.RoleEmployee
}
