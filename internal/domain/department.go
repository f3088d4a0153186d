package domain

import "time"

// Department is a support unit that owns assignees and reviewers. Department
// names are unique case-insensitively.
type Department struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assignee links a user to a department's resolver pool. At most one assignee
// per department carries IsDefault.
type Assignee struct {
	ID           int64
	UserID       int64
	DepartmentID int64
	IsDefault    bool
	User         *UserRef
}

// Reviewer links a user to a department as a reviewer. The default reviewer is
// flagged on the row itself.
type Reviewer struct {
	ID           int64
	UserID       int64
	DepartmentID int64
	IsDefault    bool
	User         *UserRef
}

// DepartmentManager carries the activation state of a department. A missing
// record means the department is active.
type DepartmentManager struct {
	ID           int64
	DepartmentID int64
	UserID       int64
	IsActive     bool
}
