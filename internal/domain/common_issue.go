package domain

import "time"

// CommonIssue is a static catalog entry describing a frequently filed problem
// for a department. No workflow attaches to it.
type CommonIssue struct {
	ID           int64
	Title        string
	Description  string
	DepartmentID int64
	CreatedAt    time.Time
}
