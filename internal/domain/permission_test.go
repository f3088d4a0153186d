package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermission_EqualIsCaseInsensitive(t *testing.T) {
	assert.True(t, PermTicketView.Equal("ticket:view"))
	assert.True(t, PermTicketView.Equal("TICKET:VIEW"))
	assert.True(t, PermTicketView.Equal("Ticket:View"))
	assert.False(t, PermTicketView.Equal("ticket:update"))
}

func TestDefaultRolePermissions_CoverKnownRoles(t *testing.T) {
	for _, role := range []RoleName{RoleEmployee, RoleReviewer, RoleAssignee, RoleAdmin} {
		perms, ok := DefaultRolePermissions[role]
		assert.True(t, ok, "role %s has no default grants", role)
		assert.NotEmpty(t, perms)
	}
}

func TestDefaultRolePermissions_SubsetOfCatalog(t *testing.T) {
	catalog := map[Permission]bool{}
	for _, p := range AllPermissions() {
		catalog[p] = true
	}
	for role, perms := range DefaultRolePermissions {
		for _, p := range perms {
			assert.True(t, catalog[p], "role %s grants unknown permission %s", role, p)
		}
	}
}

func TestValidStatusAndPriority(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusOpen))
	assert.True(t, ValidStatus(TicketStatusClosed))
	assert.False(t, ValidStatus("ARCHIVED"))

	assert.True(t, ValidPriority(TicketPriorityCritical))
	assert.False(t, ValidPriority("IMMEDIATE"))
}
