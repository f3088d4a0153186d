package service

import (
	"context"
	"strings"

	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/pkg/util"
)

// CommonIssueService serves the self-help catalog shown before ticket
// creation.
type CommonIssueService struct {
	issues      repository.CommonIssueRepository
	departments repository.DepartmentRepository
}

func NewCommonIssueService(issues repository.CommonIssueRepository, departments repository.DepartmentRepository) *CommonIssueService {
	return &CommonIssueService{issues: issues, departments: departments}
}

// Create adds a catalog entry.
func (s *CommonIssueService) Create(ctx context.Context, title, description string, departmentID int64) (*domain.CommonIssue, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, util.NewValidationError("Title is required", nil)
	}
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		if util.IsCode(util.MapError(err), util.CodeNotFound) {
			return nil, util.NewNotFound("Department", map[string]any{"departmentId": departmentID})
		}
		return nil, err
	}
	issue := &domain.CommonIssue{
		Title:        title,
		Description:  description,
		DepartmentID: departmentID,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// List returns catalog entries, optionally scoped to one department.
func (s *CommonIssueService) List(ctx context.Context, departmentID *int64) ([]domain.CommonIssue, error) {
	return s.issues.List(ctx, departmentID)
}
