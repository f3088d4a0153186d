package domain

import "time"

// Comment is a message on a ticket thread, owned by its author.
type Comment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Body      string
	IsEdited  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	User      *UserRef
}
