package dto

import "time"

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// UpdateCommentRequest payload.
type UpdateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse is a thread entry.
type CommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticketId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Body      string    `json:"body"`
	IsEdited  bool      `json:"isEdited"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
