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

// CommentService implements ticket comment threads.
type CommentService struct {
	comments repository.CommentRepository
	tickets  repository.TicketRepository
	logger   *zap.Logger
}

func NewCommentService(comments repository.CommentRepository, tickets repository.TicketRepository, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, tickets: tickets, logger: logger}
}

// Create appends a comment to a ticket.
func (s *CommentService) Create(ctx context.Context, principal *auth.Principal, ticketID int64, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, util.NewValidationError("Comment body is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		TicketID: ticketID,
		UserID:   principal.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.User = &domain.UserRef{ID: principal.ID, Name: principal.Name, Email: principal.Email}
	return comment, nil
}

// ListByTicket returns the ticket's comments, oldest first.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.comments.ListByTicket(ctx, ticketID)
}

// Update edits a comment. Only its author may edit it, regardless of role.
func (s *CommentService) Update(ctx context.Context, principal *auth.Principal, id int64, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, util.NewValidationError("Comment body is required", nil)
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != principal.ID {
		return nil, util.NewForbidden("Only the comment author can edit this comment")
	}
	if err := s.comments.Update(ctx, id, body); err != nil {
		return nil, err
	}
	comment.Body = body
	comment.IsEdited = true
	return comment, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, principal *auth.Principal, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != principal.ID {
		return util.NewForbidden("Only the comment author can delete this comment")
	}
	return s.comments.Delete(ctx, id)
}
