package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/pkg/util"
)

// UpdateProfileInput carries optional self-service profile fields.
type UpdateProfileInput struct {
	Name         *string
	EmployeeCode *string
	DepartmentID *int64
}

// UserService implements profile reads and self-service updates.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetProfile fetches the caller's own record.
func (s *UserService) GetProfile(ctx context.Context, principal *auth.Principal) (*domain.User, error) {
	return s.users.GetByID(ctx, principal.ID)
}

// UpdateProfile applies a partial self-edit. Employee codes are unique
// across users.
func (s *UserService) UpdateProfile(ctx context.Context, principal *auth.Principal, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, util.NewValidationError("Name cannot be empty", nil)
		}
		user.Name = name
	}
	if input.EmployeeCode != nil {
		code := strings.TrimSpace(*input.EmployeeCode)
		if code == "" {
			user.EmployeeCode = nil
		} else {
			if existing, err := s.users.FindByEmployeeCode(ctx, code, user.ID); err == nil && existing != nil {
				return nil, util.NewConflict("Employee code is already in use",
					map[string]any{"employeeCode": code})
			}
			user.EmployeeCode = &code
		}
	}
	if input.DepartmentID != nil {
		if *input.DepartmentID == 0 {
			user.DepartmentID = nil
		} else {
			user.DepartmentID = input.DepartmentID
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", zap.Int64("user_id", user.ID))
	return user, nil
}
