package domain

import "strings"

// Permission is a namespaced `resource:action` grant key. The catalog below is
// the closed set of permissions the system knows about; the live grants for a
// role are still resolved from the store at authentication time.
type Permission string

const (
	PermTicketCreate         Permission = "ticket:create"
	PermTicketView           Permission = "ticket:view"
	PermTicketUpdate         Permission = "ticket:update"
	PermTicketStatusChange   Permission = "ticket:status-change"
	PermTicketPriorityChange Permission = "ticket:priority-change"
	PermTicketReassign       Permission = "ticket:reassign"
	PermChatCreate           Permission = "chat:create"
	PermChatView             Permission = "chat:view"
	PermProfileView          Permission = "profile:view"
	PermProfileUpdate        Permission = "profile:update"
	PermAssigneeView         Permission = "assignee:view"
	PermAdminView            Permission = "admin:view"
)

// AllPermissions enumerates the full catalog, used for seeding.
func AllPermissions() []Permission {
	return []Permission{
		PermTicketCreate,
		PermTicketView,
		PermTicketUpdate,
		PermTicketStatusChange,
		PermTicketPriorityChange,
		PermTicketReassign,
		PermChatCreate,
		PermChatView,
		PermProfileView,
		PermProfileUpdate,
		PermAssigneeView,
		PermAdminView,
	}
}

// RoleName enumerates the built-in roles.
type RoleName string

const (
	RoleEmployee RoleName = "EMPLOYEE"
	RoleReviewer RoleName = "REVIEWER"
	RoleAssignee RoleName = "ASSIGNEE"
	RoleAdmin    RoleName = "ADMIN"
)

// DefaultRolePermissions is the static role to permission-set table. It seeds
// the role_permissions join and documents what each role is granted on a
// fresh install; admins may change grants afterwards through the store.
var DefaultRolePermissions = map[RoleName][]Permission{
	RoleEmployee: {
		PermTicketCreate,
		PermTicketView,
		PermTicketUpdate,
		PermTicketStatusChange,
		PermChatCreate,
		PermChatView,
		PermProfileView,
		PermProfileUpdate,
	},
	RoleReviewer: {
		PermTicketView,
		PermTicketStatusChange,
		PermChatCreate,
		PermChatView,
		PermProfileView,
		PermProfileUpdate,
	},
	RoleAssignee: {
		PermTicketCreate,
		PermTicketView,
		PermTicketStatusChange,
		PermTicketPriorityChange,
		PermTicketReassign,
		PermChatCreate,
		PermChatView,
		PermAssigneeView,
		PermProfileView,
		PermProfileUpdate,
	},
	RoleAdmin: {
		PermTicketReassign,
		PermChatView,
		PermAssigneeView,
		PermAdminView,
		PermTicketView,
		PermProfileView,
		PermProfileUpdate,
	},
}

// Equal compares permissions case-insensitively.
func (p Permission) Equal(other string) bool {
	return strings.EqualFold(string(p), other)
}

// Role is the persisted role record.
type Role struct {
	ID   int64
	Name RoleName
}
